package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anchora-network/anchora-orchestrator/agent/utils"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ORCH"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: utils.Version,
	Use:     "anchora-orchestrator",
	Short:   "Anchora orchestrator cli tool",
	Long: `
Anchora orchestrator cli tool

Drives tenant onboarding, credential definition publication and the
revocation lifecycle thru an agent admin API and its endorser wallet.
	`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.ParseLoggingArgs(rootFlags.logging)
		handleViperFlags(cmd)
	},
}

// Execute root
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns a current root command which can be used for adding own
// commands in an own repo.
func RootCmd() *cobra.Command {
	return rootCmd
}

// DryRun returns a value of a dry run flag.
func DryRun() bool {
	return rootFlags.dryRun
}

// RootFlags are the common flags
type RootFlags struct {
	cfgFile string
	dryRun  bool
	logging string
}

// AgentFlags locate the agent admin API and the caller wallets.
type AgentFlags struct {
	AdminURL      string
	APIKey        string
	TenantToken   string
	EndorserToken string
}

var (
	rootFlags  = RootFlags{}
	agentFlags = AgentFlags{}
)

var rootEnvs = map[string]string{
	"config":         "CONFIG",
	"logging":        "LOGGING",
	"dry-run":        "DRY_RUN",
	"admin-url":      "ADMIN_URL",
	"api-key":        "API_KEY",
	"token":          "TOKEN",
	"endorser-token": "ENDORSER_TOKEN",
}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.cfgFile, "config", "", flagInfo("configuration file", "", rootEnvs["config"]))
	flags.StringVar(&rootFlags.logging, "logging", "-logtostderr=true -v=1", flagInfo("logging startup arguments", "", rootEnvs["logging"]))
	flags.BoolVarP(&rootFlags.dryRun, "dry-run", "n", false, flagInfo("perform a trial run with no changes made", "", rootEnvs["dry-run"]))
	flags.StringVar(&agentFlags.AdminURL, "admin-url", "http://localhost:3021", flagInfo("agent admin API url", "", rootEnvs["admin-url"]))
	flags.StringVar(&agentFlags.APIKey, "api-key", "", flagInfo("agent admin API key", "", rootEnvs["api-key"]))
	flags.StringVar(&agentFlags.TenantToken, "token", "", flagInfo("tenant wallet bearer token", "", rootEnvs["token"]))
	flags.StringVar(&agentFlags.EndorserToken, "endorser-token", "", flagInfo("endorser wallet bearer token", "", rootEnvs["endorser-token"]))

	try.To(viper.BindPFlag("logging", flags.Lookup("logging")))
	try.To(viper.BindPFlag("dry-run", flags.Lookup("dry-run")))
	try.To(viper.BindPFlag("admin-url", flags.Lookup("admin-url")))
	try.To(viper.BindPFlag("api-key", flags.Lookup("api-key")))
	try.To(viper.BindPFlag("token", flags.Lookup("token")))
	try.To(viper.BindPFlag("endorser-token", flags.Lookup("endorser-token")))

	try.To(BindEnvs(rootEnvs, ""))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	readConfigFile()
	readBoundRootFlags()
}

func readBoundRootFlags() {
	rootFlags.logging = viper.GetString("logging")
	rootFlags.dryRun = viper.GetBool("dry-run")
	agentFlags.AdminURL = viper.GetString("admin-url")
	agentFlags.APIKey = viper.GetString("api-key")
	agentFlags.TenantToken = viper.GetString("token")
	agentFlags.EndorserToken = viper.GetString("endorser-token")
}

func readConfigFile() {
	cfgEnv := os.Getenv(getEnvName("", "config"))
	if rootFlags.cfgFile != "" || cfgEnv != "" {
		printInfo := true
		if rootFlags.cfgFile == "" {
			rootFlags.cfgFile = cfgEnv
			printInfo = false
		}
		viper.SetConfigFile(rootFlags.cfgFile)
		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err == nil && printInfo {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// BindEnvs calls viper.BindEnv with envMap and cmdName which can be empty if
// flag is general.
func BindEnvs(envMap map[string]string, cmdName string) (err error) {
	defer err2.Handle(&err)
	for flagKey, envName := range envMap {
		finalEnvName := getEnvName(cmdName, envName)
		try.To(viper.BindEnv(flagKey, finalEnvName))
	}
	return nil
}

func flagInfo(info, cmdPrefix, envName string) string {
	return info + ", " + getEnvName(cmdPrefix, envName)
}

func getEnvName(cmdName, envName string) string {
	if cmdName == "" {
		return envPrefix + "_" + strings.ToUpper(envName)
	}
	return envPrefix + "_" + strings.ToUpper(cmdName) + "_" + envName
}

func handleViperFlags(cmd *cobra.Command) {
	setRequiredStringFlags(cmd)
	if cmd.HasParent() {
		handleViperFlags(cmd.Parent())
	}
}

func setRequiredStringFlags(cmd *cobra.Command) {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	try.To(viper.BindPFlags(cmd.LocalFlags()))
	if cmd.PreRunE != nil {
		try.To(cmd.PreRunE(cmd, nil))
	}
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if viper.GetString(f.Name) != "" {
			try.To(cmd.LocalFlags().Set(f.Name, viper.GetString(f.Name)))
		}
	})
}

// SubCmdNeeded prints the help and error messages because the cmd is abstract.
func SubCmdNeeded(cmd *cobra.Command) {
	fmt.Println("Subcommand needed!")
	_ = cmd.Help()
	os.Exit(1)
}
