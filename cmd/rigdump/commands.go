package main

import (
	"os"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/spf13/cobra"
)

// skinEnv names the environment variable used when --skin is not given.
const skinEnv = "RIGDUMP_SKIN"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rigdump",
		Short:         "Inspect skeletal rigs described in YAML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPoseCmd())
	return root
}

func newPoseCmd() *cobra.Command {
	var opts poseOptions
	cmd := &cobra.Command{
		Use:   "pose FILE",
		Short: "Pose a rig in its setup pose and print bone world transforms as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.skin = common.Coalesce(opts.skin, os.Getenv(skinEnv))
			return runPose(cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.skin, "skin", "", "skin to activate (defaults to $"+skinEnv+")")
	flags.Float32Var(&opts.x, "x", 0, "skeleton x position")
	flags.Float32Var(&opts.y, "y", 0, "skeleton y position")
	flags.Float32Var(&opts.scaleX, "scale-x", 1, "skeleton x scale")
	flags.Float32Var(&opts.scaleY, "scale-y", 1, "skeleton y scale")
	flags.BoolVar(&opts.vertices, "vertices", false, "include slot world vertices")
	flags.Float32Var(&opts.jitter, "jitter", 0, "jitter emitted vertices by up to this amount")
	flags.Uint64Var(&opts.seed, "seed", 1, "jitter seed")
	return cmd
}
