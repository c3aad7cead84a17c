// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/inference-net/staking/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "stakingd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "stakingd"
	app.Usage = "Delegated staking accounting node"
	app.Flags = []cli.Flag{
		dataDirFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
		signerFlag,
	}
	app.Commands = []cli.Command{
		initCommand,
		fundCommand,
		overviewCommand,
		poolCommand,
		recordCommand,
		{
			Name:   "stake",
			Usage:  "stake tokens into a pool",
			Flags:  []cli.Flag{poolFlag, amountFlag},
			Action: withSession(stakeAction),
		},
		{
			Name:   "unstake",
			Usage:  "start unstaking shares",
			Flags:  []cli.Flag{poolFlag, sharesFlag},
			Action: withSession(unstakeAction),
		},
		{
			Name:   "cancel-unstake",
			Usage:  "return cooling tokens to the pool",
			Flags:  []cli.Flag{poolFlag},
			Action: withSession(cancelUnstakeAction),
		},
		{
			Name:   "claim-unstake",
			Usage:  "withdraw tokens after the unstake delay",
			Flags:  []cli.Flag{poolFlag},
			Action: withSession(claimUnstakeAction),
		},
		{
			Name:   "claim-usdc",
			Usage:  "withdraw settled USDC earnings",
			Flags:  []cli.Flag{poolFlag},
			Action: withSession(claimUsdcAction),
		},
		epochCommand,
		merkleCommand,
		inspectCommand,
		serveCommand,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
