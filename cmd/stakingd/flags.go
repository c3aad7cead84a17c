// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state and event databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the state cache",
		Value: 512,
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	signerFlag = cli.StringFlag{
		Name:  "signer",
		Usage: "address authorizing the operation",
	}
	yesFlag = cli.BoolFlag{
		Name:  "yes",
		Usage: "skip the confirmation prompt",
	}

	// serve
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8670",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	apiPoolsLimitFlag = cli.Uint64Flag{
		Name:  "api-pools-limit",
		Value: 50,
		Usage: "limit the number of pools returned by /pools API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "only log requests slower than this many milliseconds",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log every request answered with a 5xx status",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the local clock, empty to disable",
	}
	pollIntervalFlag = cli.DurationFlag{
		Name:  "poll-interval",
		Value: defaultPollInterval,
		Usage: "how often subscriptions look for new events",
	}

	// operations
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path of the YAML config file",
	}
	poolFlag = cli.StringFlag{
		Name:  "pool",
		Usage: "operator pool address",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "staking record owner, defaults to the signer",
	}
	destFlag = cli.StringFlag{
		Name:  "dest",
		Usage: "destination token account owner, defaults to the signer",
	}
	usdcDestFlag = cli.StringFlag{
		Name:  "usdc-dest",
		Usage: "destination of the slashed USDC earnings, defaults to --dest",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "amount in base units",
	}
	sharesFlag = cli.Uint64Flag{
		Name:  "shares",
		Usage: "amount of shares",
	}
	mintFlag = cli.StringFlag{
		Name:  "mint",
		Value: "token",
		Usage: "mint to use (token|usdc)",
	}
	epochFlag = cli.Uint64Flag{
		Name:  "epoch",
		Usage: "reward epoch",
	}
	rootFlag = cli.StringSliceFlag{
		Name:  "root",
		Usage: "merkle root, may be repeated",
	}
	distributionFlag = cli.StringFlag{
		Name:  "distribution",
		Usage: "distribution file written by 'merkle build'",
	}
	rewardsFlag = cli.Uint64Flag{
		Name:  "rewards",
		Usage: "total token rewards of the epoch",
	}
	usdcFlag = cli.Uint64Flag{
		Name:  "usdc",
		Usage: "total USDC payout of the epoch",
	}
	rootIndexFlag = cli.IntFlag{
		Name:  "root-index",
		Usage: "index of the merkle root the claim is checked against",
	}
	leavesFlag = cli.StringFlag{
		Name:  "leaves",
		Usage: "YAML file listing pool, reward and usdc per leaf",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "output file, stdout if empty",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "dump the stored value as is",
	}

	// settings
	rewardRateFlag = cli.StringFlag{
		Name:  "reward-rate",
		Usage: "reward commission in bps, 'none' cancels a pending change",
	}
	usdcRateFlag = cli.StringFlag{
		Name:  "usdc-rate",
		Usage: "USDC commission in bps, 'none' cancels a pending change",
	}
	allowDelegationFlag = cli.StringFlag{
		Name:  "allow-delegation",
		Usage: "whether others may stake into the pool (true|false)",
	}
	autoStakeFeesFlag = cli.StringFlag{
		Name:  "auto-stake-fees",
		Usage: "whether withdrawn reward commission is restaked (true|false)",
	}
	haltedFlag = cli.BoolTFlag{
		Name:  "halted",
		Usage: "halt (true) or resume (false)",
	}
	finalizingFlag = cli.BoolTFlag{
		Name:  "finalizing",
		Usage: "set (true) or clear (false) the finalizing flag",
	}
	newAdminFlag = cli.StringFlag{
		Name:  "new-admin",
		Usage: "address of the new administrator",
	}
	rewardAuthoritiesFlag = cli.StringFlag{
		Name:  "reward-authorities",
		Usage: "comma separated reward distribution authorities, 'none' clears the list",
	}
	haltAuthoritiesFlag = cli.StringFlag{
		Name:  "halt-authorities",
		Usage: "comma separated halt authorities, 'none' clears the list",
	}
	slashingAuthoritiesFlag = cli.StringFlag{
		Name:  "slashing-authorities",
		Usage: "comma separated slashing authorities, 'none' clears the list",
	}
	stakingHaltedFlag = cli.StringFlag{
		Name:  "staking-halted",
		Usage: "halt staking protocol wide (true|false)",
	}
	withdrawalHaltedFlag = cli.StringFlag{
		Name:  "withdrawal-halted",
		Usage: "halt withdrawals protocol wide (true|false)",
	}
	accrueHaltedFlag = cli.StringFlag{
		Name:  "accrue-halted",
		Usage: "halt reward accrual protocol wide (true|false)",
	}
	allowPoolCreationFlag = cli.StringFlag{
		Name:  "allow-pool-creation",
		Usage: "whether new pools may be created (true|false)",
	}
	minOperatorStakeFlag = cli.StringFlag{
		Name:  "min-operator-stake",
		Usage: "minimum token stake of a pool operator",
	}
	operatorDelayFlag = cli.StringFlag{
		Name:  "operator-unstake-delay",
		Usage: "operator unstake delay in seconds",
	}
	delegatorDelayFlag = cli.StringFlag{
		Name:  "delegator-unstake-delay",
		Usage: "delegator unstake delay in seconds",
	}
	slashingDelayFlag = cli.StringFlag{
		Name:  "slashing-delay",
		Usage: "slashing delay in seconds",
	}
	registrationFeeFlag = cli.StringFlag{
		Name:  "registration-fee",
		Usage: "pool registration fee in token base units",
	}
	feeWalletFlag = cli.StringFlag{
		Name:  "fee-wallet",
		Usage: "owner of the account receiving registration fees",
	}
)
