// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package dist

// BuiltDist is a wheel file along with the verdict on it.
type BuiltDist struct {
	Filename      *WheelFilename
	File          File
	Index         string
	Compatibility WheelCompatibility
}

// SourceDist is a source distribution file along with the verdict on it.
type SourceDist struct {
	Filename      *SourceFilename
	File          File
	Index         string
	Compatibility SourceDistCompatibility
}

// PrioritizedDist is the best wheel and the best source distribution known for a single version
// of a package.  If no usable file of a kind is known, the most nearly usable one is kept so
// that its incompatibility may be reported.
type PrioritizedDist struct {
	Wheel  *BuiltDist
	Source *SourceDist
}

// InsertBuilt considers 'dist' as a replacement for the current wheel.  It wins if its verdict
// is strictly better; if the verdicts tie, the lexically smaller filename wins, so that the
// outcome does not depend on the order of insertion.
func (p *PrioritizedDist) InsertBuilt(dist BuiltDist) {
	if p.Wheel == nil {
		p.Wheel = &dist
		return
	}
	cmp := dist.Compatibility.Cmp(p.Wheel.Compatibility)
	if cmp > 0 || (cmp == 0 && dist.File.Filename < p.Wheel.File.Filename) {
		p.Wheel = &dist
	}
}

// InsertSource is InsertBuilt for source distributions.
func (p *PrioritizedDist) InsertSource(dist SourceDist) {
	if p.Source == nil {
		p.Source = &dist
		return
	}
	cmp := dist.Compatibility.Cmp(p.Source.Compatibility)
	if cmp > 0 || (cmp == 0 && dist.File.Filename < p.Source.File.Filename) {
		p.Source = &dist
	}
}

// BestWheel returns the usable wheel, if there is one.
func (p *PrioritizedDist) BestWheel() (*BuiltDist, bool) {
	if p.Wheel == nil || !p.Wheel.Compatibility.IsCompatible() {
		return nil, false
	}
	return p.Wheel, true
}

// BestSource returns the usable source distribution, if there is one.
func (p *PrioritizedDist) BestSource() (*SourceDist, bool) {
	if p.Source == nil || !p.Source.Compatibility.IsCompatible() {
		return nil, false
	}
	return p.Source, true
}

// IncompatibleWheel returns why no wheel is usable, if wheels are known but none is usable.
func (p *PrioritizedDist) IncompatibleWheel() (IncompatibleWheel, bool) {
	if p.Wheel == nil || p.Wheel.Compatibility.IsCompatible() {
		return IncompatibleWheelNone, false
	}
	return p.Wheel.Compatibility.Incompatible, true
}

// IncompatibleSource returns why no source distribution is usable, if source distributions are
// known but none is usable.
func (p *PrioritizedDist) IncompatibleSource() (IncompatibleSource, bool) {
	if p.Source == nil || p.Source.Compatibility.IsCompatible() {
		return IncompatibleSourceNone, false
	}
	return p.Source.Compatibility.Incompatible, true
}

// IsEmpty returns whether neither a wheel nor a source distribution is usable.
func (p *PrioritizedDist) IsEmpty() bool {
	_, haveWheel := p.BestWheel()
	_, haveSource := p.BestSource()
	return !haveWheel && !haveSource
}
