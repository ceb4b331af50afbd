package cmd

import (
	"log"
	"os"

	"github.com/anchora-network/anchora-orchestrator/cmds/creddef"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var creddefEnvs = map[string]string{
	"schema-id":          "SCHEMA_ID",
	"tag":                "TAG",
	"support-revocation": "SUPPORT_REVOCATION",
	"registry-size":      "REGISTRY_SIZE",
}

var creddefSchemaEnvs = map[string]string{
	"cred-def-id": "CRED_DEF_ID",
}

// creddefCmd is the parent of the credential definition subcommands.
var creddefCmd = &cobra.Command{
	Use:   "creddef",
	Short: "Parent command for credential definition operations",
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

// creddefCreateCmd represents the creddef create subcommand
var creddefCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Command for publishing a credential definition",
	Long: `
Command for publishing a credential definition to the ledger.

With --support-revocation the publication blocks until the revocation
registry pair backing the definition is active.

Example
	anchora-orchestrator creddef create \
		--schema-id 6qnvgJtqwK44D8LFYnV5Yf:2:email:1.0 \
		--tag default \
		--support-revocation \
		--token <tenant jwt>
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(creddefEnvs, "creddef")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		cdCreateCmd.Cmd.AdminURL = agentFlags.AdminURL
		cdCreateCmd.Cmd.APIKey = agentFlags.APIKey
		cdCreateCmd.Cmd.TenantToken = agentFlags.TenantToken
		try.To(cdCreateCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(cdCreateCmd.Exec(os.Stdout))
		}
		return nil
	},
}

// creddefSchemaCmd represents the creddef schema subcommand
var creddefSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Command for resolving the schema id of a credential definition",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(creddefSchemaEnvs, "creddef")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		cdSchemaCmd.Cmd.AdminURL = agentFlags.AdminURL
		cdSchemaCmd.Cmd.APIKey = agentFlags.APIKey
		cdSchemaCmd.Cmd.TenantToken = agentFlags.TenantToken
		try.To(cdSchemaCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(cdSchemaCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var (
	cdCreateCmd = creddef.CreateCmd{}
	cdSchemaCmd = creddef.SchemaCmd{}
)

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := creddefCreateCmd.Flags()
	flags.StringVar(&cdCreateCmd.SchemaID, "schema-id", "", flagInfo("schema id the definition publishes against", "creddef", creddefEnvs["schema-id"]))
	flags.StringVar(&cdCreateCmd.Tag, "tag", "default", flagInfo("definition tag", "creddef", creddefEnvs["tag"]))
	flags.BoolVar(&cdCreateCmd.SupportRevocation, "support-revocation", false, flagInfo("provision revocation registries for the definition", "creddef", creddefEnvs["support-revocation"]))
	flags.IntVar(&cdCreateCmd.RegistrySize, "registry-size", 0, flagInfo("revocation registry size, 0 for the default", "creddef", creddefEnvs["registry-size"]))

	schemaFlags := creddefSchemaCmd.Flags()
	schemaFlags.StringVar(&cdSchemaCmd.CredDefID, "cred-def-id", "", flagInfo("credential definition id to resolve", "creddef", creddefSchemaEnvs["cred-def-id"]))

	creddefCmd.AddCommand(creddefCreateCmd)
	creddefCmd.AddCommand(creddefSchemaCmd)
	rootCmd.AddCommand(creddefCmd)
}
