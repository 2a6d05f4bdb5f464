package custody_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
)

// gateExpr is the build time compatibility assertion of a caller written
// against interface version M.N.
const gateExpr = "uint(custody.InterfaceMajor-%[1]d) + uint(%[1]d-custody.InterfaceMajor) + uint(custody.InterfaceMinor-%[2]d)"

// checkGate type checks the assertion of a caller requiring major.minor
// against the interface constants declared by this package.
func checkGate(t *testing.T, major, minor int) error {
	t.Helper()
	src := fmt.Sprintf(`package caller

const (
	InterfaceMajor = %d
	InterfaceMinor = %d
)

const _ = %s
`, custody.InterfaceMajor, custody.InterfaceMinor,
		strings.Replace(fmt.Sprintf(gateExpr, major, minor), "custody.", "", -1))

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "caller.go", src, 0)
	if err != nil {
		t.Fatalf("cannot parse: %s", err)
	}
	var conf types.Config
	_, err = conf.Check("caller", fset, []*ast.File{file}, nil)
	return err
}

func TestInterfaceVersionGate(t *testing.T) {
	cases := map[string]struct {
		major, minor int
		wantErr      bool
	}{
		"same version":  {major: 1, minor: 0},
		"newer major":   {major: 2, minor: 0, wantErr: true},
		"older major":   {major: 0, minor: 0, wantErr: true},
		"missing minor": {major: 1, minor: 1, wantErr: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := checkGate(t, tc.major, tc.minor)
			if tc.wantErr {
				if err == nil {
					t.Fatal("build must fail")
				}
				assert.Equal(t, true, strings.Contains(err.Error(), "uint"))
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestContractsDeclareVersionGate(t *testing.T) {
	want := "const _ = " + fmt.Sprintf(gateExpr, 1, 0)
	for _, path := range []string{"x/bounty/contract.go", "x/program/contract.go"} {
		raw, err := ioutil.ReadFile(path)
		assert.Nil(t, err)
		if !strings.Contains(string(raw), want) {
			t.Errorf("%s does not assert interface version 1.0", path)
		}
	}
}
