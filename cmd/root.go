/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/gpxc/common"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/trackio"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gpxc",
	Short: "Clean and compress GPS tracks",
	Long: `gpxc reads GPX and GeoJSON tracks, removes GPS errors, smooths them,
compresses them and writes them back out as GPX, GeoJSON, CSV, KML or polylines.

Every pipeline flag may also be set in $HOME/.gpxc.toml
or in the environment, e.g. GPXC_STRATEGY=remove-50.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gpxc.toml)")
	pFlags.String("log-level", "info", "Log level: debug, info, warn, error")
	pFlags.Bool("log-json", false, "Log JSON instead of text")
	pFlags.String("log-file", "", "Append logs to this file instead of stderr")

	pFlags.AddFlagSet(pipelineFlags(params.DefaultPipelineConfig()))

	if err := viper.BindPFlags(pFlags); err != nil {
		log.Fatalln(err)
	}
}

// pipelineFlags defines one flag per PipelineConfig field.
// The flag names double as viper keys.
func pipelineFlags(d params.PipelineConfig) *pflag.FlagSet {
	fs := pflag.NewFlagSet("pipeline", pflag.ExitOnError)
	fs.Bool("remove-gps-errors", d.RemoveGPSErrors, "Drop points that jump too far from the last good point")
	fs.Float64("gps-threshold", d.GPSErrorThreshold, "GPS error jump threshold in meters")
	fs.Bool("smooth-vertical", d.SmoothVertical, "Smooth elevations")
	fs.Bool("smooth-horizontal", d.SmoothHorizontal, "Smooth positions")
	fs.String("smooth-method", d.SmoothMethod, "Smoothing method: average or kalman")
	fs.String("strategy", d.Strategy, "Compression strategy, see 'gpxc compress --help'")
	fs.Float64("epsilon", d.RDPEpsilon, "RDP tolerance in degrees")
	fs.Float64("keep-fraction", d.KeepFraction, "Fraction of points kept by the fraction strategy")
	fs.Float64("proximity", d.CloseProximity, "Distance in meters for the remove-close strategy")
	fs.Bool("remove-metadata", d.RemoveMetadata, "Drop document and track metadata")
	fs.Bool("remove-time", d.RemoveTime, "Drop timestamps")
	fs.Bool("remove-elevation", d.RemoveElevation, "Drop elevations")
	fs.String("suffix", d.OutputSuffix, "Suffix appended to output file names")
	fs.String("format", d.OutputFormat, "Output format: "+strings.Join(trackio.Formats(), ", ")+" (default: same as input)")
	return fs
}

// pipelineConfig reads a PipelineConfig from v, i.e. flags, env and config file.
func pipelineConfig(v *viper.Viper) params.PipelineConfig {
	return params.PipelineConfig{
		CleanConfig: params.CleanConfig{
			RemoveGPSErrors:   v.GetBool("remove-gps-errors"),
			GPSErrorThreshold: v.GetFloat64("gps-threshold"),
		},
		StripConfig: params.StripConfig{
			RemoveMetadata:  v.GetBool("remove-metadata"),
			RemoveTime:      v.GetBool("remove-time"),
			RemoveElevation: v.GetBool("remove-elevation"),
		},
		SmoothConfig: params.SmoothConfig{
			SmoothVertical:   v.GetBool("smooth-vertical"),
			SmoothHorizontal: v.GetBool("smooth-horizontal"),
			SmoothMethod:     v.GetString("smooth-method"),
		},
		CompressConfig: params.CompressConfig{
			Strategy:       v.GetString("strategy"),
			RDPEpsilon:     v.GetFloat64("epsilon"),
			KeepFraction:   v.GetFloat64("keep-fraction"),
			CloseProximity: v.GetFloat64("proximity"),
		},
		OutputConfig: params.OutputConfig{
			OutputSuffix: v.GetString("suffix"),
			OutputFormat: v.GetString("format"),
		},
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalln(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gpxc")
		viper.SetConfigType("toml")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatalln(err)
		}
	}
}

// bindEnv makes every key readable from a GPXC_ variable,
// e.g. keep-fraction from GPXC_KEEP_FRACTION and webd.token from GPXC_WEBD_TOKEN.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("GPXC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// setDefaultSlog installs the process-wide slog handler from the log flags.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		log.Fatalln(err)
	}

	var w io.Writer = os.Stderr
	if name := viper.GetString("log-file"); name != "" {
		path, err := homedir.Expand(name)
		if err != nil {
			log.Fatalln(err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalln(err)
		}
		w = f
	}
	slog.SetDefault(slog.New(common.NewSlogHandler(w, viper.GetBool("log-json"), level)))
	slog.Debug("Logger ready", "cmd", cmd.Name(), "args", fmt.Sprint(args))
}
