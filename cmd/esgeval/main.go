package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tyyim/esg-reason-sub000/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

// errInterrupted marks a run stopped by the operator before finishing.
// Progress is already checkpointed when it is returned.
var errInterrupted = errors.New("esgeval: run interrupted")

// errRunFailures marks a run that completed but left some questions in
// a terminal failed state. The summary has already been printed.
var errRunFailures = errors.New("esgeval: completed with failures")

// Exit codes: 0 completed fully, 1 completed with terminal failures,
// 2 aborted before completion.
func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errRunFailures):
			osExit(1)
		case errors.Is(err, errInterrupted):
			osExit(2)
		default:
			fmt.Fprintln(stderrWriter, err)
			osExit(2)
		}
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "esgeval",
		Short:         "Evaluate LLM answers against ESG document QA benchmarks",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newReportCmd(st))
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newListCmd())
	return root
}

func loadConfigInto(st *cliState) error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}
