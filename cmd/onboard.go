package cmd

import (
	"log"
	"os"

	"github.com/anchora-network/anchora-orchestrator/cmds/onboard"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var onboardEnvs = map[string]string{
	"role":      "ROLE",
	"label":     "LABEL",
	"wallet-id": "WALLET_ID",
}

// onboardCmd represents the onboard subcommand
var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Command for onboarding a tenant",
	Long: `
Command for onboarding an issuer or verifier tenant.

Issuers get a public DID anchored thru the endorser; verifiers get a
public multi-use invitation.

Example
	anchora-orchestrator onboard \
		--role issuer \
		--label "Acme Issuing" \
		--token <tenant jwt> \
		--endorser-token <endorser jwt>
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(onboardEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		onbCmd.Cmd.AdminURL = agentFlags.AdminURL
		onbCmd.Cmd.APIKey = agentFlags.APIKey
		onbCmd.Cmd.TenantToken = agentFlags.TenantToken
		onbCmd.Cmd.EndorserToken = agentFlags.EndorserToken
		try.To(onbCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(onbCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var onbCmd = onboard.Cmd{}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := onboardCmd.Flags()
	flags.StringVar(&onbCmd.Role, "role", "", flagInfo("tenant role: issuer or verifier", onboardCmd.Name(), onboardEnvs["role"]))
	flags.StringVar(&onbCmd.Label, "label", "", flagInfo("tenant label for invitations and ledger alias", onboardCmd.Name(), onboardEnvs["label"]))
	flags.StringVar(&onbCmd.WalletID, "wallet-id", "", flagInfo("tenant wallet id for logging", onboardCmd.Name(), onboardEnvs["wallet-id"]))

	rootCmd.AddCommand(onboardCmd)
}
