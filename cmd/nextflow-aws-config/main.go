package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/cmds/sources"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appcmds "github.com/go-go-golems/nextflow-aws-config/cmds"
	appdoc "github.com/go-go-golems/nextflow-aws-config/pkg/doc"
)

const appName = "nextflow-aws-config"

var version = "dev"

// envPrefix prefixes environment overrides, e.g. NEXTFLOW_AWS_CONFIG_AWS_REGION.
var envPrefix = strings.ToUpper(strings.ReplaceAll(appName, "-", "_"))

func getMiddlewares(parsedValues *values.Values, cmd *cobra.Command, args []string) ([]sources.Middleware, error) {
	commandSettings := &cli.CommandSettings{}
	err := parsedValues.DecodeSectionInto(cli.CommandSettingsSlug, commandSettings)
	if err != nil {
		return nil, err
	}

	mw_ := []sources.Middleware{
		sources.FromCobra(cmd,
			fields.WithSource("cobra"),
		),
		sources.FromArgs(args,
			fields.WithSource("arguments"),
		),
	}

	mw_ = append(mw_,
		sources.FromEnv(envPrefix, fields.WithSource("env")),
		sources.FromDefaults(fields.WithSource(fields.SourceDefaults)),
	)

	return mw_, nil
}

// initConfig loads the optional app config file (~/.nextflow-aws-config/config.yaml
// or --app-config) into viper. Missing files are not an error. The flag is not
// named --config because batch uses that for its job file.
func initConfig(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().String("app-config", "", fmt.Sprintf("Path to config file (default ~/.%s/config.yaml)", appName))

	configFile := ""
	for idx, arg := range os.Args {
		if arg == "--app-config" && len(os.Args) > idx+1 {
			configFile = os.Args[idx+1]
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetConfigType("yaml")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(fmt.Sprintf("$HOME/.%s", appName))
		viper.AddConfigPath(fmt.Sprintf("/etc/%s", appName))
		if xdg, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(fmt.Sprintf("%s/%s", xdg, appName))
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Generate Nextflow configs and Batch job definitions from AWS stack outputs",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.InitLoggerFromCobra(cmd)
		},
	}

	cobra.CheckErr(logging.AddLoggingSectionToRootCommand(rootCmd, appName))
	cobra.CheckErr(initConfig(rootCmd))

	// Help system
	hs := help.NewHelpSystem()
	_ = appdoc.AddDocToHelpSystem(hs)
	help_cmd.SetupCobraRootCommand(hs, rootCmd)

	opts := []cli.CobraOption{
		cli.WithParserConfig(cli.CobraParserConfig{
			MiddlewaresFunc: getMiddlewares,
		}),
	}

	constructors := []func() (gcmds.Command, error){
		func() (gcmds.Command, error) { return appcmds.NewConfigCommand() },
		func() (gcmds.Command, error) { return appcmds.NewJobDefinitionCommand() },
		func() (gcmds.Command, error) { return appcmds.NewConfigFromJobDefinitionCommand() },
		func() (gcmds.Command, error) { return appcmds.NewExportsCommand() },
		func() (gcmds.Command, error) { return appcmds.NewJobDefinitionsCommand() },
		func() (gcmds.Command, error) { return appcmds.NewBatchCommand() },
		func() (gcmds.Command, error) { return appcmds.NewValidateCommand() },
	}
	for _, newCommand := range constructors {
		c, err := newCommand()
		cobra.CheckErr(err)
		cmd, err := cli.BuildCobraCommand(c, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	}

	cobra.CheckErr(rootCmd.Execute())
}
