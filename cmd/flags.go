package cmd

import (
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/spf13/cobra"
)

// funcFlag converts a flag into a config option. It returns nil when
// the flag was not set on the command line.
type funcFlag func(cmd *cobra.Command) config.Option

// flagOptions collects options of the flags that were set.
func flagOptions(cmd *cobra.Command, flags ...funcFlag) []config.Option {
	var res []config.Option
	for _, f := range flags {
		if opt := f(cmd); opt != nil {
			res = append(res, opt)
		}
	}
	return res
}

func dataPathFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("data-path") {
		return nil
	}
	s, _ := cmd.Flags().GetString("data-path")
	return config.OptDataPath(s)
}

func jobsFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("jobs") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("jobs")
	return config.OptJobsNumber(i)
}

func quietFlag(cmd *cobra.Command) config.Option {
	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		return nil
	}
	return config.OptCatalogWithProgress(false)
}

func formatFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("format") {
		return nil
	}
	s, _ := cmd.Flags().GetString("format")
	return config.OptCatalogFormat(s)
}

func outputFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("output") {
		return nil
	}
	s, _ := cmd.Flags().GetString("output")
	return config.OptCatalogOutput(s)
}

func separateFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("separate") {
		return nil
	}
	b, _ := cmd.Flags().GetBool("separate")
	return config.OptCatalogSeparate(b)
}

func observationsFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("with-observations") {
		return nil
	}
	b, _ := cmd.Flags().GetBool("with-observations")
	return config.OptCatalogWithObservations(b)
}

func forceFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("force") {
		return nil
	}
	b, _ := cmd.Flags().GetBool("force")
	return config.OptFetchForce(b)
}
