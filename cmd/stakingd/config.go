// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/inference-net/staking/merkle"
	"github.com/inference-net/staking/pubkey"
	"github.com/inference-net/staking/staker"
	"github.com/inference-net/staking/staker/overview"
)

// Config is the YAML file read by 'init'.
type Config struct {
	Admin                         pubkey.Address   `yaml:"admin"`
	TokenMint                     pubkey.Address   `yaml:"tokenMint"`
	UsdcMint                      pubkey.Address   `yaml:"usdcMint"`
	MinOperatorTokenStake         uint64           `yaml:"minOperatorTokenStake"`
	OperatorUnstakeDelaySeconds   uint64           `yaml:"operatorUnstakeDelaySeconds"`
	DelegatorUnstakeDelaySeconds  uint64           `yaml:"delegatorUnstakeDelaySeconds"`
	// SlashingDelaySeconds defaults to the protocol minimum when omitted.
	SlashingDelaySeconds          uint64           `yaml:"slashingDelaySeconds"`
	AllowPoolCreation             bool             `yaml:"allowPoolCreation"`
	RewardDistributionAuthorities []pubkey.Address `yaml:"rewardDistributionAuthorities"`
	HaltAuthorities               []pubkey.Address `yaml:"haltAuthorities"`
	SlashingAuthorities           []pubkey.Address `yaml:"slashingAuthorities"`
	OperatorPoolRegistrationFee   uint64           `yaml:"operatorPoolRegistrationFee"`
	RegistrationFeePayoutWallet   pubkey.Address   `yaml:"registrationFeePayoutWallet"`
	Balances                      []Balance        `yaml:"balances"`
}

// Balance is an initial allocation minted by 'init'. Mint is "token" or "usdc".
type Balance struct {
	Mint   string         `yaml:"mint"`
	Owner  pubkey.Address `yaml:"owner"`
	Amount uint64         `yaml:"amount"`
}

func (c *Config) overviewParams() *staker.OverviewParams {
	slashingDelay := c.SlashingDelaySeconds
	if slashingDelay == 0 {
		slashingDelay = overview.MinSlashingDelaySeconds
	}
	return &staker.OverviewParams{
		TokenMint:                     c.TokenMint,
		UsdcMint:                      c.UsdcMint,
		MinOperatorTokenStake:         c.MinOperatorTokenStake,
		OperatorUnstakeDelaySeconds:   c.OperatorUnstakeDelaySeconds,
		DelegatorUnstakeDelaySeconds:  c.DelegatorUnstakeDelaySeconds,
		SlashingDelaySeconds:          slashingDelay,
		AllowPoolCreation:             c.AllowPoolCreation,
		RewardDistributionAuthorities: c.RewardDistributionAuthorities,
		HaltAuthorities:               c.HaltAuthorities,
		SlashingAuthorities:           c.SlashingAuthorities,
		OperatorPoolRegistrationFee:   c.OperatorPoolRegistrationFee,
		RegistrationFeePayoutWallet:   c.RegistrationFeePayoutWallet,
	}
}

// Distribution is one epoch's merkle tree with a proof per pool, as written by 'merkle build'.
type Distribution struct {
	Root   pubkey.Bytes32 `yaml:"root"`
	Leaves []DistLeaf     `yaml:"leaves"`
}

type DistLeaf struct {
	Pool      pubkey.Address   `yaml:"pool"`
	Reward    uint64           `yaml:"reward"`
	Usdc      uint64           `yaml:"usdc"`
	Proof     []pubkey.Bytes32 `yaml:"proof,flow"`
	ProofPath []bool           `yaml:"proofPath,flow"`
}

// Totals sums the leaves.
func (d *Distribution) Totals() (rewards, usdc uint64) {
	for _, l := range d.Leaves {
		rewards += l.Reward
		usdc += l.Usdc
	}
	return
}

// Claim returns the accrual argument of pool.
func (d *Distribution) Claim(pool pubkey.Address, rootIndex int) (*staker.RewardClaim, error) {
	for _, l := range d.Leaves {
		if l.Pool == pool {
			return &staker.RewardClaim{
				RootIndex:    rootIndex,
				Proof:        l.Proof,
				ProofPath:    l.ProofPath,
				RewardAmount: l.Reward,
				UsdcAmount:   l.Usdc,
			}, nil
		}
	}
	return nil, errors.Errorf("pool %v not in distribution", pool)
}

func buildDistribution(leaves []merkle.Leaf) (*Distribution, error) {
	tree, err := merkle.NewTree(sortLeaves(leaves))
	if err != nil {
		return nil, err
	}
	d := &Distribution{Root: tree.Root()}
	for _, l := range tree.Leaves() {
		if l.Pool.IsZero() {
			continue
		}
		proof, err := tree.Proof(l.Pool)
		if err != nil {
			return nil, err
		}
		d.Leaves = append(d.Leaves, DistLeaf{
			Pool:      l.Pool,
			Reward:    l.Reward,
			Usdc:      l.Usdc,
			Proof:     proof.Siblings,
			ProofPath: proof.Path,
		})
	}
	return d, nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %v", path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %v", path)
	}
	return nil
}

// sortLeaves orders leaves by the base58 form of their pool.
func sortLeaves(leaves []merkle.Leaf) []merkle.Leaf {
	sorted := slices.Clone(leaves)
	slices.SortFunc(sorted, func(a, b merkle.Leaf) int {
		return strings.Compare(a.Pool.String(), b.Pool.String())
	})
	return sorted
}
