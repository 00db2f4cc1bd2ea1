package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/specscan/cli/cmd"
	"github.com/ardnew/specscan/log"
)

// ErrLoadConfig is returned when the configuration file cannot be decoded.
var ErrLoadConfig = cmd.NewError("load configuration")

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys are flag names. Nested mappings are joined with hyphens, and
// underscores may stand in for hyphens, so these are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command-line flags override values from the file.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrLoadConfig.Wrap(err)
	}

	var doc map[string]any

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrLoadConfig.Wrap(err)
	}

	c := make(config, len(doc))
	c.flatten("", doc)

	return c, nil
}

// config implements [kong.Resolver] over flattened YAML keys.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		name := prefix + strings.ReplaceAll(key, "_", "-")

		if sub, ok := value.(map[string]any); ok {
			c.flatten(name+"-", sub)

			continue
		}

		c[name] = scalar(value)
	}
}

// scalar converts a decoded YAML value to the form kong's mappers accept:
// numbers as strings and sequences as comma-separated lists.
func scalar(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(scalar(e))
		}

		return strings.Join(parts, ",")
	default:
		return v
	}
}

// Validate implements [kong.Resolver]. Keys that name no flag are reported
// and otherwise ignored.
func (c config) Validate(app *kong.Application) error {
	known := make(map[string]bool)

	var walk func(*kong.Node)

	walk = func(n *kong.Node) {
		for _, f := range n.Flags {
			known[f.Name] = true
		}

		for _, child := range n.Children {
			walk(child)
		}
	}

	walk(app.Node)

	for key := range c {
		if !known[key] {
			log.Warn("unknown configuration key", slog.String("key", key))
		}
	}

	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
