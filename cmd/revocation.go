package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anchora-network/anchora-orchestrator/cmds/revocation"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var revocationEnvs = map[string]string{
	"cred-ex-id":   "CRED_EX_ID",
	"auto-publish": "AUTO_PUBLISH",
	"rev-reg-id":   "REV_REG_ID",
}

// revocationCmd is the parent of the revocation subcommands.
var revocationCmd = &cobra.Command{
	Use:   "revocation",
	Short: "Parent command for revocation operations",
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

// revokeCmd represents the revocation revoke subcommand
var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Command for revoking an issued credential",
	Long: `
Command for revoking an issued credential.

Without --auto-publish the revocation is staged as pending and must be
published separately with the publish subcommand.
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(revocationEnvs, "revocation")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		revRevokeCmd.Cmd.AdminURL = agentFlags.AdminURL
		revRevokeCmd.Cmd.APIKey = agentFlags.APIKey
		revRevokeCmd.Cmd.TenantToken = agentFlags.TenantToken
		try.To(revRevokeCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(revRevokeCmd.Exec(os.Stdout))
		}
		return nil
	},
}

// revPublishCmd represents the revocation publish subcommand
var revPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Command for publishing pending revocations",
	Long: `
Command for publishing pending revocations.

Each --registry flag names one registry and its staged credential
revocation ids as rev-reg-id=crid1,crid2.
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		revPubCmd.Cmd.AdminURL = agentFlags.AdminURL
		revPubCmd.Cmd.APIKey = agentFlags.APIKey
		revPubCmd.Cmd.TenantToken = agentFlags.TenantToken
		revPubCmd.Registry = try.To1(parseRegistryArgs(registryArgs))
		try.To(revPubCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(revPubCmd.Exec(os.Stdout))
		}
		return nil
	},
}

// revClearCmd represents the revocation clear subcommand
var revClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Command for clearing pending revocations",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		revClrCmd.Cmd.AdminURL = agentFlags.AdminURL
		revClrCmd.Cmd.APIKey = agentFlags.APIKey
		revClrCmd.Cmd.TenantToken = agentFlags.TenantToken
		revClrCmd.Registry = try.To1(parseRegistryArgs(registryArgs))
		try.To(revClrCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(revClrCmd.Exec(os.Stdout))
		}
		return nil
	},
}

// revPendingCmd represents the revocation pending subcommand
var revPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Command for listing the pending revocations of a registry",
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(revocationEnvs, "revocation")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		revPendCmd.Cmd.AdminURL = agentFlags.AdminURL
		revPendCmd.Cmd.APIKey = agentFlags.APIKey
		revPendCmd.Cmd.TenantToken = agentFlags.TenantToken
		try.To(revPendCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(revPendCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var (
	revRevokeCmd = revocation.RevokeCmd{}
	revPubCmd    = revocation.PublishCmd{}
	revClrCmd    = revocation.ClearCmd{}
	revPendCmd   = revocation.PendingCmd{}
	registryArgs []string
)

// parseRegistryArgs turns repeated rev-reg-id=crid1,crid2 arguments into
// the registry-to-credential map the admin API takes.
func parseRegistryArgs(args []string) (m map[string][]string, err error) {
	m = make(map[string][]string, len(args))
	for _, arg := range args {
		regID, crids, found := strings.Cut(arg, "=")
		if !found || regID == "" {
			return nil, fmt.Errorf(
				"registry argument %q is not rev-reg-id=crid1,crid2", arg)
		}
		ids := make([]string, 0, 4)
		for _, crid := range strings.Split(crids, ",") {
			if crid != "" {
				ids = append(ids, crid)
			}
		}
		m[regID] = ids
	}
	return m, nil
}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := revokeCmd.Flags()
	flags.StringVar(&revRevokeCmd.CredExID, "cred-ex-id", "", flagInfo("credential exchange id of the credential", "revocation", revocationEnvs["cred-ex-id"]))
	flags.BoolVar(&revRevokeCmd.AutoPublish, "auto-publish", false, flagInfo("write the revocation to the ledger immediately", "revocation", revocationEnvs["auto-publish"]))

	revPublishCmd.Flags().StringArrayVar(&registryArgs, "registry", nil, "registry and its credential revocation ids as rev-reg-id=crid1,crid2")
	revClearCmd.Flags().StringArrayVar(&registryArgs, "registry", nil, "registry and its credential revocation ids as rev-reg-id=crid1,crid2")

	revPendingCmd.Flags().StringVar(&revPendCmd.RegID, "rev-reg-id", "", flagInfo("revocation registry id", "revocation", revocationEnvs["rev-reg-id"]))

	revocationCmd.AddCommand(revokeCmd)
	revocationCmd.AddCommand(revPublishCmd)
	revocationCmd.AddCommand(revClearCmd)
	revocationCmd.AddCommand(revPendingCmd)
	rootCmd.AddCommand(revocationCmd)
}
