package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

//SolverOptions carries every tunable of the solver. It is built once (from
//defaults, a config file or CLI flags) and embedded into the solver; there is
//no global option state.
type SolverOptions struct {
	VarDecay      float64 `mapstructure:"var-decay"`     //variable activity decay factor
	ClauseDecay   float64 `mapstructure:"cla-decay"`     //clause activity decay factor
	RandomVarFreq float64 `mapstructure:"rnd-freq"`      //frequency of random decisions
	RandomSeed    float64 `mapstructure:"rnd-seed"`      //seed of the decision PRNG
	CcminMode     int     `mapstructure:"ccmin-mode"`    //conflict clause minimization (0=none, 1=basic, 2=deep)
	PhaseSaving   int     `mapstructure:"phase-saving"`  //phase saving (0=none, 1=limited, 2=full)
	RandomInitAct bool    `mapstructure:"rnd-init"`      //randomize the initial activity
	RandomPol     bool    `mapstructure:"rnd-pol"`       //pick branch polarity at random
	LubyRestart   bool    `mapstructure:"luby"`          //use the Luby restart sequence
	RestartFirst  int     `mapstructure:"rfirst"`        //base restart interval
	RestartInc    float64 `mapstructure:"rinc"`          //restart interval increase factor
	GarbageFrac   float64 `mapstructure:"gc-frac"`       //wasted fraction triggering garbage collection
	Storing       bool    `mapstructure:"storing"`       //store generated symmetry clauses for future use
	InvertingOpt  bool    `mapstructure:"inverting-opt"` //adjust initial variable order for inverting symmetries
	InactiveOpt   bool    `mapstructure:"inactive-opt"`  //symmetry propagation for weakly inactive symmetries
	EsbpEnd       bool    `mapstructure:"esbp-end"`      //query the external order after each propagated literal

	//derived from Storing; split so the two clause flavors can be toggled
	//independently by embedders
	AddPropagationClauses bool `mapstructure:"-"`
	AddConflictClauses    bool `mapstructure:"-"`

	LearntsizeFactor float64 `mapstructure:"learntsize-factor"`
	LearntsizeInc    float64 `mapstructure:"learntsize-inc"`
}

func DefaultOptions() SolverOptions {
	return SolverOptions{
		VarDecay:              0.95,
		ClauseDecay:           0.999,
		RandomVarFreq:         0,
		RandomSeed:            91648253,
		CcminMode:             2,
		PhaseSaving:           2,
		RandomInitAct:         false,
		RandomPol:             false,
		LubyRestart:           true,
		RestartFirst:          100,
		RestartInc:            2.0,
		GarbageFrac:           0.20,
		Storing:               true,
		InvertingOpt:          false,
		InactiveOpt:           false,
		EsbpEnd:               true,
		AddPropagationClauses: true,
		AddConflictClauses:    true,
		LearntsizeFactor:      1.0 / 3.0,
		LearntsizeInc:         1.1,
	}
}

//normalize resolves derived fields after decoding
func (o *SolverOptions) normalize() {
	o.AddPropagationClauses = o.Storing
	o.AddConflictClauses = o.Storing
}

//OptionsFromMap overlays values from a generic map onto defaults
func OptionsFromMap(values map[string]interface{}) (SolverOptions, error) {
	opts := DefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := decoder.Decode(values); err != nil {
		return opts, fmt.Errorf("cannot decode solver options: %v", err)
	}
	opts.normalize()
	return opts, nil
}

//OptionsFromFile reads a JSON config file of option values
func OptionsFromFile(path string) (SolverOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultOptions(), err
	}
	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return DefaultOptions(), fmt.Errorf("cannot parse config file %s: %v", path, err)
	}
	return OptionsFromMap(values)
}
