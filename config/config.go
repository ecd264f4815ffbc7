// SPDX-License-Identifier: MIT

// Package config loads an immutable model configuration from HCL (primary)
// or YAML files and turns it into a household and solver options.
//
// HCL layout:
//
//	model "huggett" {
//	  kind = "single_asset"            # or "two_asset"
//	  rho  = 0.05
//	  utility {
//	    sigma = 2
//	  }
//	  income {
//	    levels    = [0.1, 0.2]
//	    switching = [0.02, 0.03]       # two-state shortcut, or rates = [[...], [...]]
//	  }
//	  axis "a" {
//	    min    = -0.1
//	    max    = 1.5
//	    points = 500                   # or nodes = [...]
//	  }
//	  prices {
//	    r = 0.03
//	    w = 1
//	  }
//	}
//	solver {
//	  scheme = "implicit"              # also dt, tol, max_iter, linear
//	}
//	distribution {
//	  method = "direct"                # also pin, death, birth, step, tol, max_steps
//	}
//
// Two-asset models declare the liquid axis first, then the illiquid one, and
// read r_b, r_borrow, r_a, w, xi from prices and chi0, chi1, a_floor from costs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig reports a configuration that parses but cannot be built.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnsupportedFormat reports a file extension other than .hcl, .yaml or .yml.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)

// Model kinds.
const (
	KindSingleAsset = "single_asset"
	KindTwoAsset    = "two_asset"
)

// File is a decoded configuration file.
type File struct {
	Path         string        `yaml:"-"`
	Model        Model         `hcl:"model,block" yaml:"model"`
	Solver       *Solver       `hcl:"solver,block" yaml:"solver,omitempty"`
	Distribution *Distribution `hcl:"distribution,block" yaml:"distribution,omitempty"`
}

// Model holds the household parameters.
type Model struct {
	Name    string   `hcl:"name,label" yaml:"name"`
	Kind    string   `hcl:"kind,attr" yaml:"kind"`
	Rho     float64  `hcl:"rho,attr" yaml:"rho"`
	Utility *Utility `hcl:"utility,block" yaml:"utility,omitempty"`
	Income  Income   `hcl:"income,block" yaml:"income"`
	Axes    []Axis   `hcl:"axis,block" yaml:"axes"`
	Prices  *Prices  `hcl:"prices,block" yaml:"prices,omitempty"`
	Costs   *Costs   `hcl:"costs,block" yaml:"costs,omitempty"`
}

// Utility selects CRRA risk aversion.
type Utility struct {
	Sigma float64 `hcl:"sigma,attr" yaml:"sigma"`
}

// Income is the exogenous income process.
type Income struct {
	Levels    []float64   `hcl:"levels,attr" yaml:"levels"`
	Rates     [][]float64 `hcl:"rates,optional" yaml:"rates,omitempty"`
	Switching []float64   `hcl:"switching,optional" yaml:"switching,omitempty"`
}

// Axis is one asset grid: uniform from min, max and points, or explicit nodes.
type Axis struct {
	Name   string    `hcl:"name,label" yaml:"name"`
	Min    float64   `hcl:"min,optional" yaml:"min,omitempty"`
	Max    float64   `hcl:"max,optional" yaml:"max,omitempty"`
	Points int       `hcl:"points,optional" yaml:"points,omitempty"`
	Nodes  []float64 `hcl:"nodes,optional" yaml:"nodes,omitempty"`
}

// Prices are returns and the wage.
type Prices struct {
	R       float64 `hcl:"r,optional" yaml:"r,omitempty"`
	W       float64 `hcl:"w,optional" yaml:"w,omitempty"`
	RB      float64 `hcl:"r_b,optional" yaml:"r_b,omitempty"`
	RBorrow float64 `hcl:"r_borrow,optional" yaml:"r_borrow,omitempty"`
	RA      float64 `hcl:"r_a,optional" yaml:"r_a,omitempty"`
	Xi      float64 `hcl:"xi,optional" yaml:"xi,omitempty"`
}

// Costs are the illiquid adjustment-cost parameters.
type Costs struct {
	Chi0   float64 `hcl:"chi0,optional" yaml:"chi0,omitempty"`
	Chi1   float64 `hcl:"chi1,optional" yaml:"chi1,omitempty"`
	AFloor float64 `hcl:"a_floor,optional" yaml:"a_floor,omitempty"`
}

// Solver configures the value-function iteration. Zero values keep defaults.
type Solver struct {
	Scheme  string  `hcl:"scheme,optional" yaml:"scheme,omitempty"`
	Dt      float64 `hcl:"dt,optional" yaml:"dt,omitempty"`
	Tol     float64 `hcl:"tol,optional" yaml:"tol,omitempty"`
	MaxIter int     `hcl:"max_iter,optional" yaml:"max_iter,omitempty"`
	Linear  string  `hcl:"linear,optional" yaml:"linear,omitempty"`
}

// Distribution configures the stationary-distribution solve. Zero values keep defaults.
type Distribution struct {
	Method   string    `hcl:"method,optional" yaml:"method,omitempty"`
	Pin      int       `hcl:"pin,optional" yaml:"pin,omitempty"`
	Death    float64   `hcl:"death,optional" yaml:"death,omitempty"`
	Birth    []float64 `hcl:"birth,optional" yaml:"birth,omitempty"`
	Step     float64   `hcl:"step,optional" yaml:"step,omitempty"`
	Tol      float64   `hcl:"tol,optional" yaml:"tol,omitempty"`
	MaxSteps int       `hcl:"max_steps,optional" yaml:"max_steps,omitempty"`
}

// Load reads path and decodes it by extension.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes src; filename selects the format and labels diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	var (
		f   File
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hcl":
		err = decodeHCL(src, filename, &f)
	case ".yaml", ".yml":
		err = decodeYAML(src, filename, &f)
	default:
		return nil, fmt.Errorf("config: %s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	f.Path = filename

	return &f, nil
}

func decodeHCL(src []byte, filename string, f *File) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("config: failed to parse HCL file %s: %w", filename, diags)
	}
	if diags = gohcl.DecodeBody(file.Body, nil, f); diags.HasErrors() {
		return fmt.Errorf("config: failed to decode HCL file %s: %w", filename, diags)
	}
	return nil
}

func decodeYAML(src []byte, filename string, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return fmt.Errorf("config: failed to decode YAML file %s: %w", filename, err)
	}
	return nil
}
