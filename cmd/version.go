package cmd

import (
	"fmt"
	"log"

	"github.com/anchora-network/anchora-orchestrator/agent/utils"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version and build information of the CLI tool",
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		defer err2.Handle(&err)

		try.To1(fmt.Println(utils.Version))
		return nil
	},
}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	rootCmd.AddCommand(versionCmd)
}
