package assert

import (
	"math/big"
	"testing"

	"github.com/iov-one/custody/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrPaused,
			ErrGot:   errors.ErrPaused,
			WantFail: false,
		},
		"compared to nil": {
			ErrWant:  nil,
			ErrGot:   errors.ErrPaused,
			WantFail: true,
		},
		"both nil": {
			ErrWant:  nil,
			ErrGot:   nil,
			WantFail: false,
		},
		"wrapped": {
			ErrWant:  errors.ErrPaused,
			ErrGot:   errors.Wrap(errors.ErrPaused, "test"),
			WantFail: false,
		},
		"different kind": {
			ErrWant:  errors.ErrPaused,
			ErrGot:   errors.ErrNotFound,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			mock := &tmock{TB: t}
			IsErr(mock, tc.ErrWant, tc.ErrGot)
			failed := mock.failcalls > 0
			if tc.WantFail != failed {
				t.Fatalf("unlexpected failed call state: %d failures", mock.failcalls)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	mock := &tmock{TB: t}
	Amount(mock, 0, nil)
	Amount(mock, 42, big.NewInt(42))
	if mock.failcalls != 0 {
		t.Fatalf("unexpected failures: %d", mock.failcalls)
	}
	Amount(mock, 1, big.NewInt(2))
	if mock.failcalls != 1 {
		t.Fatal("want amount mismatch reported")
	}
}

type tmock struct {
	testing.TB
	failcalls int
}

func (t *tmock) Helper() {}

func (t *tmock) Fatal(args ...interface{}) {
	t.failcalls++
}

func (t *tmock) Fatalf(s string, args ...interface{}) {
	t.failcalls++
}

func (t *tmock) Error(args ...interface{}) {
	t.failcalls++
}

func (t *tmock) Errorf(s string, args ...interface{}) {
	t.failcalls++
}
