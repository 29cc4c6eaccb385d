// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pulse

import (
	"github.com/emer/etable/etensor"
)

// Cell pairs one connection with one neuron group: spikes in, connection
// current, neuron dynamics, spikes out.  It is the minimal composable
// unit for assembling feedforward circuits.
type Cell struct {
	Conn Connection `desc:"input mapping from presynaptic spikes to current"`
	Neur Neuron     `desc:"neuron group consuming the connection's current"`
}

// NewCell returns a new cell wiring conn into neur.  The connection's
// output shape must match the neuron group's input shape in unit count.
func NewCell(conn Connection, neur Neuron) (*Cell, error) {
	if conn == nil || neur == nil {
		return nil, configErrorf("cell requires a connection and a neuron group")
	}
	if co, ni := shapeSize(conn.OutShape()), shapeSize(neur.InShape()); co != ni {
		return nil, configErrorf("connection output has %d units, neuron group needs %d", co, ni)
	}
	return &Cell{Conn: conn, Neur: neur}, nil
}

func (cl *Cell) InShape() []int  { return cl.Conn.InShape() }
func (cl *Cell) OutShape() []int { return cl.Neur.OutShape() }

// Step runs one simulation step: presynaptic spikes through the
// connection, current through the neuron group, spikes out.
func (cl *Cell) Step(spikes *etensor.Float32) (*etensor.Float32, error) {
	cur, err := cl.Conn.Step(spikes)
	if err != nil {
		return nil, err
	}
	return cl.Neur.Step(cur)
}

// Clear resets the connection and neuron state.
func (cl *Cell) Clear() {
	cl.Conn.Clear()
	cl.Neur.Clear()
}

///////////////////////////////////////////////////////////////////////
//  Layer

// Layer sums the currents of multiple named connections into one neuron
// group, e.g. a feedforward input plus a lateral feedback onto the same
// units.  Connections are stepped in the order added; their currents add
// before the neuron update.
type Layer struct {
	Names []string     `desc:"connection names, parallel to Conns"`
	Conns []Connection `desc:"input connections, all mapping onto the neuron group's units"`
	Neur  Neuron       `desc:"neuron group consuming the summed current"`
}

// NewLayer returns a new layer over the given neuron group, with no
// connections yet.
func NewLayer(neur Neuron) (*Layer, error) {
	if neur == nil {
		return nil, configErrorf("layer requires a neuron group")
	}
	return &Layer{Neur: neur}, nil
}

// AddConn adds a named input connection.  Its output unit count must
// match the neuron group, and the name must be unique within the layer.
func (ly *Layer) AddConn(name string, conn Connection) error {
	if conn == nil {
		return configErrorf("nil connection")
	}
	if name == "" {
		return configErrorf("connection name must be non-empty")
	}
	if ly.ConnByName(name) != nil {
		return configErrorf("connection name %q already in use", name)
	}
	if co, ni := shapeSize(conn.OutShape()), shapeSize(ly.Neur.InShape()); co != ni {
		return configErrorf("connection output has %d units, neuron group needs %d", co, ni)
	}
	ly.Names = append(ly.Names, name)
	ly.Conns = append(ly.Conns, conn)
	return nil
}

// ConnByName returns the connection with the given name, nil if none.
func (ly *Layer) ConnByName(name string) Connection {
	for i, nm := range ly.Names {
		if nm == name {
			return ly.Conns[i]
		}
	}
	return nil
}

func (ly *Layer) OutShape() []int { return ly.Neur.OutShape() }

// Step runs one simulation step: one spike tensor per connection, in
// the order added, currents summed into the neuron group.
func (ly *Layer) Step(spikes ...*etensor.Float32) (*etensor.Float32, error) {
	if len(spikes) != len(ly.Conns) {
		return nil, shapeErrorf("layer got %d spike tensors for %d connections", len(spikes), len(ly.Conns))
	}
	var sum *etensor.Float32
	for ci, cn := range ly.Conns {
		cur, err := cn.Step(spikes[ci])
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = cur
		} else {
			if sum.Len() != cur.Len() {
				return nil, shapeErrorf("connection %d current has %d elements, expected %d", ci, cur.Len(), sum.Len())
			}
			for i, v := range cur.Values {
				sum.Values[i] += v
			}
		}
	}
	if sum == nil {
		return nil, configErrorf("layer has no connections")
	}
	return ly.Neur.Step(sum)
}

// Clear resets all connections and the neuron state.
func (ly *Layer) Clear() {
	for _, cn := range ly.Conns {
		cn.Clear()
	}
	ly.Neur.Clear()
}

///////////////////////////////////////////////////////////////////////
//  Biclique

// Biclique is the complete bipartite assembly: every connection's
// current feeds every neuron group.  Currents from all connections sum,
// and each neuron group integrates the same summed current, producing
// one spike tensor per group.
type Biclique struct {
	Conns []Connection `desc:"input connections, all with the same output unit count"`
	Neurs []Neuron     `desc:"neuron groups, all consuming the summed current"`
}

// NewBiclique returns a new biclique over the given connections and
// neuron groups.  All connection output unit counts and neuron group
// input unit counts must agree.
func NewBiclique(conns []Connection, neurs []Neuron) (*Biclique, error) {
	if len(conns) == 0 || len(neurs) == 0 {
		return nil, configErrorf("biclique requires at least one connection and one neuron group")
	}
	sz := shapeSize(conns[0].OutShape())
	for ci, cn := range conns {
		if co := shapeSize(cn.OutShape()); co != sz {
			return nil, configErrorf("connection %d output has %d units, expected %d", ci, co, sz)
		}
	}
	for ni, nr := range neurs {
		if in := shapeSize(nr.InShape()); in != sz {
			return nil, configErrorf("neuron group %d input has %d units, expected %d", ni, in, sz)
		}
	}
	return &Biclique{Conns: conns, Neurs: neurs}, nil
}

// Step runs one simulation step: one spike tensor per connection,
// currents summed, each neuron group integrating the sum.  Returns one
// spike tensor per neuron group.
func (bc *Biclique) Step(spikes ...*etensor.Float32) ([]*etensor.Float32, error) {
	if len(spikes) != len(bc.Conns) {
		return nil, shapeErrorf("biclique got %d spike tensors for %d connections", len(spikes), len(bc.Conns))
	}
	var sum *etensor.Float32
	for ci, cn := range bc.Conns {
		cur, err := cn.Step(spikes[ci])
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = cur
		} else {
			if sum.Len() != cur.Len() {
				return nil, shapeErrorf("connection %d current has %d elements, expected %d", ci, cur.Len(), sum.Len())
			}
			for i, v := range cur.Values {
				sum.Values[i] += v
			}
		}
	}
	outs := make([]*etensor.Float32, len(bc.Neurs))
	for ni, nr := range bc.Neurs {
		out, err := nr.Step(sum)
		if err != nil {
			return nil, err
		}
		outs[ni] = out
	}
	return outs, nil
}

// Clear resets all connections and neuron groups.
func (bc *Biclique) Clear() {
	for _, cn := range bc.Conns {
		cn.Clear()
	}
	for _, nr := range bc.Neurs {
		nr.Clear()
	}
}

///////////////////////////////////////////////////////////////////////
//  Serial

// Serial chains cells into a feedforward pipeline: each cell's spikes
// feed the next cell within the same simulation step.
type Serial struct {
	Cells []*Cell `desc:"pipeline stages, in order"`
}

// NewSerial returns a new serial assembly over the given cells.
// Adjacent output / input unit counts must agree.
func NewSerial(cells ...*Cell) (*Serial, error) {
	if len(cells) == 0 {
		return nil, configErrorf("serial assembly requires at least one cell")
	}
	for i := 1; i < len(cells); i++ {
		po, ni := shapeSize(cells[i-1].OutShape()), shapeSize(cells[i].InShape())
		if po != ni {
			return nil, configErrorf("cell %d output has %d units, cell %d input needs %d", i-1, po, i, ni)
		}
	}
	return &Serial{Cells: cells}, nil
}

func (sr *Serial) InShape() []int  { return sr.Cells[0].InShape() }
func (sr *Serial) OutShape() []int { return sr.Cells[len(sr.Cells)-1].OutShape() }

// Step runs one simulation step through the whole pipeline and returns
// the final cell's spikes.
func (sr *Serial) Step(spikes *etensor.Float32) (*etensor.Float32, error) {
	cur := spikes
	var err error
	for _, cl := range sr.Cells {
		cur, err = cl.Step(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Clear resets every cell.
func (sr *Serial) Clear() {
	for _, cl := range sr.Cells {
		cl.Clear()
	}
}
