package transcript

import "testing"

func runTrace(tr *Transcript) []uint64 {
	tr.AbsorbBytes([]byte("hello"))
	tr.AbsorbUint64(42)
	c1 := tr.Challenge([]byte("c1"))
	tr.AbsorbField(c1)
	c2 := tr.Challenge([]byte("c2"))
	return []uint64{c1.Uint64(), c2.Uint64()}
}

func TestTranscriptDeterminism(t *testing.T) {
	for _, kind := range []HashKind{Poseidon, Sha3_256, Blake3} {
		tr1 := WithBackend(kind, []byte("init"))
		tr2 := WithBackend(kind, []byte("init"))

		got1 := runTrace(tr1)
		got2 := runTrace(tr2)

		for i := range got1 {
			if got1[i] != got2[i] {
				t.Fatalf("backend %d: challenge %d diverged: %d vs %d", kind, i, got1[i], got2[i])
			}
		}
	}
}

func TestTranscriptCrossBackendIndependence(t *testing.T) {
	p := WithBackend(Poseidon, []byte("init"))
	s := WithBackend(Sha3_256, []byte("init"))

	pc := runTrace(p)
	sc := runTrace(s)

	if pc[0] == sc[0] {
		t.Fatalf("poseidon and sha3 produced the same challenge for identical absorb trace")
	}
}

func TestTranscriptSensitiveToAbsorbedContent(t *testing.T) {
	tr1 := New([]byte("init"))
	tr1.AbsorbBytes([]byte("a"))
	c1 := tr1.Challenge([]byte("x"))

	tr2 := New([]byte("init"))
	tr2.AbsorbBytes([]byte("b"))
	c2 := tr2.Challenge([]byte("x"))

	if c1.Equal(c2) {
		t.Fatalf("different absorbed content produced the same challenge")
	}
}
