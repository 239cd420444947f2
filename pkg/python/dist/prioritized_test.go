package dist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/pydist/pkg/python/dist"
)

func builtDist(filename string, compat dist.WheelCompatibility) dist.BuiltDist {
	return dist.BuiltDist{
		File:          dist.File{Filename: filename},
		Compatibility: compat,
	}
}

func sourceDist(filename string, compat dist.SourceDistCompatibility) dist.SourceDist {
	return dist.SourceDist{
		File:          dist.File{Filename: filename},
		Compatibility: compat,
	}
}

func TestPrioritizedDistWheel(t *testing.T) {
	t.Parallel()
	var p dist.PrioritizedDist
	assert.True(t, p.IsEmpty())

	// an incompatible wheel is retained for diagnostics
	p.InsertBuilt(builtDist("a-1.0-cp27-cp27m-any.whl", dist.WheelCompatibility{Incompatible: dist.IncompatibleWheelPython}))
	_, ok := p.BestWheel()
	assert.False(t, ok)
	reason, ok := p.IncompatibleWheel()
	assert.True(t, ok)
	assert.Equal(t, dist.IncompatibleWheelPython, reason)

	// a closer miss replaces it
	p.InsertBuilt(builtDist("a-1.0-cp39-cp39-win32.whl", dist.WheelCompatibility{Incompatible: dist.IncompatibleWheelPlatform}))
	reason, _ = p.IncompatibleWheel()
	assert.Equal(t, dist.IncompatibleWheelPlatform, reason)
	p.InsertBuilt(builtDist("a-1.0-cp39-cp39d-any.whl", dist.WheelCompatibility{Incompatible: dist.IncompatibleWheelABI}))
	reason, _ = p.IncompatibleWheel()
	assert.Equal(t, dist.IncompatibleWheelPlatform, reason)

	// any compatible wheel replaces an incompatible one
	p.InsertBuilt(builtDist("a-1.0-py3-none-any.whl", dist.WheelCompatibility{Hash: dist.HashMismatched, Preference: 9}))
	best, ok := p.BestWheel()
	assert.True(t, ok)
	assert.Equal(t, "a-1.0-py3-none-any.whl", best.File.Filename)
	_, ok = p.IncompatibleWheel()
	assert.False(t, ok)
	assert.False(t, p.IsEmpty())

	// and an incompatible wheel never displaces it
	p.InsertBuilt(builtDist("a-1.0-cp39-cp39-win32.whl", dist.WheelCompatibility{Incompatible: dist.IncompatibleWheelPlatform}))
	best, _ = p.BestWheel()
	assert.Equal(t, "a-1.0-py3-none-any.whl", best.File.Filename)
}

func TestPrioritizedDistTies(t *testing.T) {
	t.Parallel()
	compat := dist.WheelCompatibility{Hash: dist.HashMatched, Preference: 1}

	var forward, backward dist.PrioritizedDist
	forward.InsertBuilt(builtDist("b.whl", compat))
	forward.InsertBuilt(builtDist("a.whl", compat))
	backward.InsertBuilt(builtDist("a.whl", compat))
	backward.InsertBuilt(builtDist("b.whl", compat))
	assert.Equal(t, "a.whl", forward.Wheel.File.Filename)
	assert.Equal(t, forward, backward)

	// identical filenames keep the first
	var p dist.PrioritizedDist
	first := builtDist("a.whl", compat)
	first.Index = "first"
	second := builtDist("a.whl", compat)
	second.Index = "second"
	p.InsertBuilt(first)
	p.InsertBuilt(second)
	assert.Equal(t, "first", p.Wheel.Index)
}

func TestPrioritizedDistSource(t *testing.T) {
	t.Parallel()
	var p dist.PrioritizedDist
	p.InsertSource(sourceDist("a-1.0.zip", dist.SourceDistCompatibility{Incompatible: dist.IncompatibleSourceNoBuild}))
	reason, ok := p.IncompatibleSource()
	assert.True(t, ok)
	assert.Equal(t, dist.IncompatibleSourceNoBuild, reason)
	assert.True(t, p.IsEmpty())

	p.InsertSource(sourceDist("a-1.0.tar.gz", dist.SourceDistCompatibility{Hash: dist.HashMissing}))
	p.InsertSource(sourceDist("a-1.0.tar.bz2", dist.SourceDistCompatibility{Hash: dist.HashMatched}))
	p.InsertSource(sourceDist("a-1.0.tar.xz", dist.SourceDistCompatibility{Hash: dist.HashMismatched}))
	best, ok := p.BestSource()
	assert.True(t, ok)
	assert.Equal(t, "a-1.0.tar.bz2", best.File.Filename)
	_, ok = p.IncompatibleSource()
	assert.False(t, ok)

	// wheels and sources are independent
	_, ok = p.BestWheel()
	assert.False(t, ok)
	_, ok = p.IncompatibleWheel()
	assert.False(t, ok)
	assert.False(t, p.IsEmpty())
}
