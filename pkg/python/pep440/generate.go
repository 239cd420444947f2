package pep440

import (
	"math/rand"
	"reflect"
	"testing/quick"

	"k8s.io/apimachinery/pkg/util/intstr"
)

func randBool(rand *rand.Rand) bool {
	return rand.Intn(2) == 1
}

func randSeg(rand *rand.Rand) int {
	return rand.Intn(30)
}

func (ver PublicVersion) generate(rand *rand.Rand, size int) PublicVersion {
	if rand.Intn(8) == 0 {
		ver.Epoch = 1
	}
	ver.Release = make([]int, 1+rand.Intn(3))
	for i := range ver.Release {
		ver.Release[i] = randSeg(rand)
	}
	if randBool(rand) {
		ver.Pre = &PreRelease{
			L: []string{"a", "b", "rc"}[rand.Intn(3)],
			N: randSeg(rand),
		}
	}
	if randBool(rand) {
		n := randSeg(rand)
		ver.Post = &n
	}
	if randBool(rand) {
		n := randSeg(rand)
		ver.Dev = &n
	}
	return ver
}

// Generate implements testing/quick.Generator.  Segments are kept small so that generated
// versions collide often enough to exercise equality.
func (ver LocalVersion) Generate(rand *rand.Rand, size int) reflect.Value {
	ver.PublicVersion = ver.PublicVersion.generate(rand, size)
	if rand.Intn(4) == 0 {
		if randBool(rand) {
			ver.Local = []intstr.IntOrString{intstr.FromInt(randSeg(rand))}
		} else {
			ver.Local = []intstr.IntOrString{intstr.FromString([]string{"ubuntu", "deb"}[rand.Intn(2)])}
		}
	}
	return reflect.ValueOf(ver)
}

//nolint:exhaustivestruct
var _ quick.Generator = LocalVersion{}
