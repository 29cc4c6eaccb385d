// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
)

// Connection is the interface for weighted maps from presynaptic spikes
// to postsynaptic current: one simulation step feeds spikes through the
// owned synapse and mixes the resulting currents with learnable weights.
type Connection interface {
	// Step runs one simulation step with the given presynaptic spikes and
	// returns the postsynaptic current, shape (batch, out-shape...).
	Step(spikes *etensor.Float32) (*etensor.Float32, error)

	// Clear resets the synapse history.  Learned parameters are untouched.
	Clear()

	InShape() []int
	OutShape() []int
}

// WtInitParams are random distribution parameters for initializing
// connection weights and biases.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0.5
	wp.Var = 0.25
	wp.Dist = erand.Uniform
}

// InitTsr fills a tensor from the distribution.
func (wp *WtInitParams) InitTsr(ts *etensor.Float32) {
	for i := range ts.Values {
		ts.Values[i] = float32(wp.Gen(-1))
	}
}

///////////////////////////////////////////////////////////////////////
//  Dense

// Dense is the all-to-all connection: every presynaptic unit projects to
// every postsynaptic unit through a learnable weight, with an optional
// per-output bias and an optional learnable per-(receiver, sender) delay
// applied to the synaptic current.
type Dense struct {
	InShp  []int        `desc:"presynaptic unit shape"`
	OutShp []int        `desc:"postsynaptic unit shape"`
	WtInit WtInitParams `view:"inline" desc:"weight initialization distribution"`
	Syn    Synapse      `desc:"owned synapse state machine, one unit per presynaptic unit"`

	// connection weights, out x in.
	Wt *etensor.Float32

	// per-output bias current, nil when disabled.
	Bias *etensor.Float32

	// per-(receiver, sender) read delays in msec, nil when not delayed.
	Delay *etensor.Float32
}

// NewDense returns a new dense connection from inShp presynaptic units
// to outShp postsynaptic units, owning syn for synaptic dynamics.  The
// synapse's unit count must match inShp.  When delayed, the synapse must
// have been built with a positive max delay; per-pair delays start at
// zero and may be trained up to that bound.
func NewDense(inShp, outShp []int, syn Synapse, bias, delayed bool) (*Dense, error) {
	cn := &Dense{}
	if err := cn.init(inShp, outShp, syn); err != nil {
		return nil, err
	}
	insz, outsz := shapeSize(inShp), shapeSize(outShp)
	cn.Wt = etensor.NewFloat32([]int{outsz, insz}, nil, []string{"Out", "In"})
	if bias {
		cn.Bias = etensor.NewFloat32([]int{outsz}, nil, []string{"Out"})
	}
	if delayed {
		if syn.MaxDelay() <= 0 {
			return nil, configErrorf("delayed connection requires a synapse with positive max delay")
		}
		cn.Delay = etensor.NewFloat32([]int{outsz, insz}, nil, []string{"Out", "In"})
	}
	cn.InitWts()
	return cn, nil
}

func (cn *Dense) init(inShp, outShp []int, syn Synapse) error {
	if syn == nil {
		return configErrorf("connection requires a synapse")
	}
	if len(inShp) == 0 || len(outShp) == 0 {
		return configErrorf("connection shapes must have at least one dimension")
	}
	insz := shapeSize(inShp)
	if ssz := shapeSize(syn.InShape()); ssz != insz {
		return configErrorf("synapse has %d units, connection input needs %d", ssz, insz)
	}
	cn.InShp = append([]int(nil), inShp...)
	cn.OutShp = append([]int(nil), outShp...)
	cn.WtInit.Defaults()
	cn.Syn = syn
	return nil
}

// InitWts initializes weights and biases from the WtInit distribution
// and zeroes any delays.
func (cn *Dense) InitWts() {
	cn.WtInit.InitTsr(cn.Wt)
	if cn.Bias != nil {
		cn.WtInit.InitTsr(cn.Bias)
	}
	if cn.Delay != nil {
		cn.Delay.SetZeros()
	}
}

func (cn *Dense) InShape() []int  { return cn.InShp }
func (cn *Dense) OutShape() []int { return cn.OutShp }

// Step feeds one step of presynaptic spikes through the synapse and
// returns the weighted postsynaptic current.
func (cn *Dense) Step(spikes *etensor.Float32) (*etensor.Float32, error) {
	cur, err := cn.Syn.Step(spikes)
	if err != nil {
		return nil, err
	}
	insz, outsz := shapeSize(cn.InShp), shapeSize(cn.OutShp)
	batch := cur.Len() / insz
	out := etensor.NewFloat32(append([]int{batch}, cn.OutShp...), nil, nil)
	if cn.Delay != nil {
		// delayed currents come back per (batch, receiver, sender)
		res, err := cn.Syn.CurrentAt(cn.Delay)
		if err != nil {
			return nil, err
		}
		for b := 0; b < batch; b++ {
			for o := 0; o < outsz; o++ {
				var sum float32
				row := (b*outsz + o) * insz
				for j := 0; j < insz; j++ {
					sum += cn.Wt.Values[o*insz+j] * res.Values[row+j]
				}
				out.Values[b*outsz+o] = sum
			}
		}
	} else {
		for b := 0; b < batch; b++ {
			for o := 0; o < outsz; o++ {
				var sum float32
				for j := 0; j < insz; j++ {
					sum += cn.Wt.Values[o*insz+j] * cur.Values[b*insz+j]
				}
				out.Values[b*outsz+o] = sum
			}
		}
	}
	if cn.Bias != nil {
		for b := 0; b < batch; b++ {
			for o := 0; o < outsz; o++ {
				out.Values[b*outsz+o] += cn.Bias.Values[o]
			}
		}
	}
	return out, nil
}

// Clear resets the synapse history.
func (cn *Dense) Clear() {
	cn.Syn.Clear()
}

///////////////////////////////////////////////////////////////////////
//  Direct

// Direct is the one-to-one connection: each presynaptic unit projects
// only to the matching postsynaptic unit, with a learnable per-unit
// weight, optional per-unit bias, and optional learnable per-unit delay.
type Direct struct {
	Shp    []int        `desc:"unit shape, shared by both sides"`
	WtInit WtInitParams `view:"inline" desc:"weight initialization distribution"`
	Syn    Synapse      `desc:"owned synapse state machine"`

	// per-unit weights.
	Wt *etensor.Float32

	// per-unit bias current, nil when disabled.
	Bias *etensor.Float32

	// per-unit read delays in msec, nil when not delayed.
	Delay *etensor.Float32
}

// NewDirect returns a new one-to-one connection over shp units, owning
// syn for synaptic dynamics.
func NewDirect(shp []int, syn Synapse, bias, delayed bool) (*Direct, error) {
	if syn == nil {
		return nil, configErrorf("connection requires a synapse")
	}
	if len(shp) == 0 {
		return nil, configErrorf("connection shapes must have at least one dimension")
	}
	sz := shapeSize(shp)
	if ssz := shapeSize(syn.InShape()); ssz != sz {
		return nil, configErrorf("synapse has %d units, connection needs %d", ssz, sz)
	}
	cn := &Direct{Syn: syn}
	cn.Shp = append([]int(nil), shp...)
	cn.WtInit.Defaults()
	cn.Wt = etensor.NewFloat32([]int{sz}, nil, nil)
	if bias {
		cn.Bias = etensor.NewFloat32([]int{sz}, nil, nil)
	}
	if delayed {
		if syn.MaxDelay() <= 0 {
			return nil, configErrorf("delayed connection requires a synapse with positive max delay")
		}
		cn.Delay = etensor.NewFloat32([]int{sz}, nil, nil)
	}
	cn.InitWts()
	return cn, nil
}

// InitWts initializes weights and biases from the WtInit distribution
// and zeroes any delays.
func (cn *Direct) InitWts() {
	cn.WtInit.InitTsr(cn.Wt)
	if cn.Bias != nil {
		cn.WtInit.InitTsr(cn.Bias)
	}
	if cn.Delay != nil {
		cn.Delay.SetZeros()
	}
}

func (cn *Direct) InShape() []int  { return cn.Shp }
func (cn *Direct) OutShape() []int { return cn.Shp }

// Step feeds one step of presynaptic spikes through the synapse and
// returns the elementwise weighted postsynaptic current.
func (cn *Direct) Step(spikes *etensor.Float32) (*etensor.Float32, error) {
	cur, err := cn.Syn.Step(spikes)
	if err != nil {
		return nil, err
	}
	if cn.Delay != nil {
		cur, err = cn.Syn.CurrentAt(cn.Delay)
		if err != nil {
			return nil, err
		}
	}
	sz := shapeSize(cn.Shp)
	batch := cur.Len() / sz
	out := etensor.NewFloat32(append([]int{batch}, cn.Shp...), nil, nil)
	for b := 0; b < batch; b++ {
		for j := 0; j < sz; j++ {
			v := cn.Wt.Values[j] * cur.Values[b*sz+j]
			if cn.Bias != nil {
				v += cn.Bias.Values[j]
			}
			out.Values[b*sz+j] = v
		}
	}
	return out, nil
}

// Clear resets the synapse history.
func (cn *Direct) Clear() {
	cn.Syn.Clear()
}

///////////////////////////////////////////////////////////////////////
//  Lateral

// Lateral is the dense recurrent connection within one group of units:
// all-to-all with the self connections masked out, for lateral
// inhibition or excitation fed back from a group to itself.
type Lateral struct {
	Dense
}

// NewLateral returns a new lateral connection over shp units, owning syn
// for synaptic dynamics.  The diagonal of the weight (and delay) matrix
// is held at zero.
func NewLateral(shp []int, syn Synapse, bias, delayed bool) (*Lateral, error) {
	dn, err := NewDense(shp, shp, syn, bias, delayed)
	if err != nil {
		return nil, err
	}
	cn := &Lateral{Dense: *dn}
	cn.MaskDiag()
	return cn, nil
}

// InitWts initializes weights from the WtInit distribution and re-masks
// the diagonal.
func (cn *Lateral) InitWts() {
	cn.Dense.InitWts()
	cn.MaskDiag()
}

// MaskDiag zeroes the self-connection weights and delays.  Call after
// any external update to Wt to maintain the lateral invariant.
func (cn *Lateral) MaskDiag() {
	sz := shapeSize(cn.InShp)
	for j := 0; j < sz; j++ {
		cn.Wt.Values[j*sz+j] = 0
		if cn.Delay != nil {
			cn.Delay.Values[j*sz+j] = 0
		}
	}
}

// shapeSize returns the number of units in a shape.
func shapeSize(shp []int) int {
	sz := 1
	for _, d := range shp {
		sz *= d
	}
	return sz
}
