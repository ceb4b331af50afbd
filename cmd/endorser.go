package cmd

import (
	"log"
	"os"
	"time"

	"github.com/anchora-network/anchora-orchestrator/cmds/endorser"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var endorserEnvs = map[string]string{
	"interval": "INTERVAL",
	"once":     "ONCE",
}

// endorserCmd is the parent of the endorser subcommands.
var endorserCmd = &cobra.Command{
	Use:   "endorser",
	Short: "Parent command for endorser operations",
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

// sweepCmd represents the endorser sweep subcommand
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Command for endorsing pending transaction requests",
	Long: `
Command for endorsing the pending transaction requests of the endorser
wallet. With --once the sweep runs one round and exits; otherwise it
keeps sweeping on the interval until interrupted.
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(endorserEnvs, "endorser")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		endSweepCmd.Cmd.AdminURL = agentFlags.AdminURL
		endSweepCmd.Cmd.APIKey = agentFlags.APIKey
		endSweepCmd.Cmd.EndorserToken = agentFlags.EndorserToken
		try.To(endSweepCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(endSweepCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var endSweepCmd = endorser.SweepCmd{}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := sweepCmd.Flags()
	flags.DurationVar(&endSweepCmd.Interval, "interval", 5*time.Second, flagInfo("sweep interval", "endorser", endorserEnvs["interval"]))
	flags.BoolVar(&endSweepCmd.Once, "once", false, flagInfo("run one sweep and exit", "endorser", endorserEnvs["once"]))

	endorserCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(endorserCmd)
}
