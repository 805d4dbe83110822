// Package config loads tiling settings from flags, a config file and the
// environment.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"s2tile/internal/convert"
	"s2tile/internal/tile"
)

// EnvPrefix namespaces environment variables, e.g. S2TILE_MAX_ZOOM
const EnvPrefix = "S2TILE"

// Config holds tiling settings
type Config struct {
	Projection   string  `mapstructure:"projection"`
	MinZoom      int     `mapstructure:"min_zoom"`
	MaxZoom      int     `mapstructure:"max_zoom"`
	IndexMaxZoom int     `mapstructure:"index_max_zoom"`
	Tolerance    float64 `mapstructure:"tolerance"`
	Buffer       float64 `mapstructure:"buffer"`
	Extent       int     `mapstructure:"extent"`
	Layer        string  `mapstructure:"layer"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	d := tile.DefaultOptions()
	v.SetDefault("projection", string(d.Projection))
	v.SetDefault("min_zoom", d.MinZoom)
	v.SetDefault("max_zoom", d.MaxZoom)
	v.SetDefault("index_max_zoom", d.IndexMaxZoom)
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("buffer", d.Buffer)
	v.SetDefault("extent", d.Extent)
	v.SetDefault("layer", "")
}

// Load reads a Config from v. The environment overrides the config file,
// which overrides the defaults. Flags bound to v take precedence over all.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", file)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first setting a tile store would reject
func (c Config) Validate() error {
	if _, err := convert.ParseProjection(c.Projection); err != nil {
		return errors.Wrap(err, "projection")
	}
	if err := c.TileOptions().Validate(); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

// TileOptions maps c onto tile.Options
func (c Config) TileOptions() tile.Options {
	p, err := convert.ParseProjection(c.Projection)
	if err != nil {
		p = convert.Projection(c.Projection)
	}
	return tile.Options{
		Projection:   p,
		MinZoom:      c.MinZoom,
		MaxZoom:      c.MaxZoom,
		IndexMaxZoom: c.IndexMaxZoom,
		Tolerance:    c.Tolerance,
		Buffer:       c.Buffer,
		Extent:       c.Extent,
		Layer:        c.Layer,
	}
}
