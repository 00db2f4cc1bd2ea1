// Package specfile reads SPEC data files: the line-oriented text files that
// diffractometer control software writes while an experiment runs.
//
// # Format
//
// A file is a sequence of header blocks and scans. Every metadata line starts
// with a marker, '#' followed by letters and an optional decimal suffix:
//
//	#F  /data/run.spec          file name
//	#E  1266957614              epoch
//	#D  Thu Feb 25 14:20:14 2010
//	#O0 Two Theta  Theta  Chi   motor labels, continued by #O1, #O2, ...
//	#o0 tth th chi              motor mnemonics
//	#J0 Monitor  Detector       counter labels
//	#j0 mon det                 counter mnemonics
//
//	#S 1  ascan  th 0 1 10 1    opens scan 1
//	#T 1  (Seconds)
//	#P0 10.5 5.25 0             motor positions, zipped against #O
//	#N 3
//	#L Theta  Monitor  Detector
//	0 1000 12
//	0.1 1000 15
//
// Numbered continuation lines are reassembled in suffix order before they are
// interpreted, so a list split over "#O0", "#O1", "#O2" means the same as the
// whole list on one line. Column labels are separated by two or more spaces
// because labels may contain a single space.
//
// A scan ends at the next #S line, at a blank line, at a marker that belongs
// only in a file header, or at the end of the input. A header block read
// between scans replaces the header in effect for every later scan; scans
// already read keep the header they were opened under.
//
// # Parsing
//
// A [Parser] can be driven one scan or one data point at a time:
//
//	p := specfile.New(r)
//	for {
//		s, err := p.NextScanHeader()
//		if err != nil {
//			break // io.EOF when no scans remain
//		}
//		for {
//			row, err := p.NextPoint()
//			if err != nil {
//				break // ErrScanEnd
//			}
//			_ = row
//		}
//		_ = s
//	}
//
// or all at once with [Parse], which returns a [Registry] of every scan.
// Scan numbers need not be unique: each scan carries the index of its
// occurrence among scans with the same number, and [Registry.Lookup] reports
// [ErrAmbiguousScan] when a number alone does not identify a scan.
//
// # Errors
//
// The parser salvages rather than aborts. Malformed scan numbers, length
// mismatches between labels and mnemonics or positions, rejected data rows
// and unknown markers are recorded on the header or scan they belong to and
// logged through the logger given with [WithLogger]. The only fatal condition
// is [ErrNoInput], an input without a single line.
package specfile
