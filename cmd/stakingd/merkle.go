// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/merkle"
)

var merkleCommand = cli.Command{
	Name:  "merkle",
	Usage: "reward distribution trees",
	Subcommands: []cli.Command{
		{
			Name:   "build",
			Usage:  "build a distribution with proofs from a list of leaves",
			Flags:  []cli.Flag{leavesFlag, outFlag},
			Action: merkleBuildAction,
		},
	},
}

func merkleBuildAction(ctx *cli.Context) error {
	initLogger(ctx)

	path := ctx.String(leavesFlag.Name)
	if path == "" {
		return errors.Errorf("missing --%s", leavesFlag.Name)
	}
	var leaves []merkle.Leaf
	if err := readYAML(path, &leaves); err != nil {
		return err
	}
	d, err := buildDistribution(leaves)
	if err != nil {
		return errors.WithMessage(err, "build tree")
	}
	logger.Info("distribution built", "root", d.Root, "leaves", len(d.Leaves))

	return writeOutput(ctx, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	})
}
