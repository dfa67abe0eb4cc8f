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
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/rotblauer/gpxc/common"
	"github.com/rotblauer/gpxc/daemon/webd"
	"github.com/rotblauer/gpxc/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long: `Serves the pipeline over HTTP.

  GET  /ping
  GET  /status
  POST /compress   body: GPX or GeoJSON

/compress takes the pipeline settings as query parameters, e.g.

  curl --data-binary @ride.gpx 'localhost:3000/compress?strategy=remove-close&proximity=20&format=geojson'

The pipeline flags of this command are the defaults for every request.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		config := params.DefaultWebDaemonConfig()
		config.Network = viper.GetString("webd.network")
		config.Address = viper.GetString("webd.address")
		config.MaxBodyBytes = viper.GetInt64("webd.max-body-bytes")
		config.Token = viper.GetString("webd.token")
		config.Pipeline = pipelineConfig(viper.GetViper())

		server, err := webd.NewWebDaemon(config)
		if err != nil {
			log.Fatalln(err)
		}

		ctx, cancel := common.CancelOnInterrupt(context.Background(), func() {
			os.Exit(1)
		})
		defer cancel()
		slog.Info("webd.Run")
		if err := server.Run(ctx); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.String("network", defaults.Network, "Network to listen on: tcp, tcp4, tcp6 or unix")
	pFlags.String("address", defaults.Address, "HTTP address to listen on")
	pFlags.Int64("max-body-bytes", defaults.MaxBodyBytes, "Largest accepted upload")
	pFlags.String("token", "", "Token required by /compress (also GPXC_WEBD_TOKEN)")

	for _, name := range []string{"network", "address", "max-body-bytes", "token"} {
		if err := viper.BindPFlag("webd."+name, pFlags.Lookup(name)); err != nil {
			log.Fatalln(err)
		}
	}
}
