package circuit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteQASM writes the circuit as an OpenQASM 2.0 program.
func (c *Circuit) WriteQASM(w io.Writer) error {
	if c.err != nil {
		return c.err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "OPENQASM 2.0;")
	fmt.Fprintln(bw, `include "qelib1.inc";`)
	fmt.Fprintf(bw, "qreg q[%d];\n", c.numQubits)
	if c.numClbits > 0 {
		fmt.Fprintf(bw, "creg c[%d];\n", c.numClbits)
	}

	for _, g := range c.gates {
		if g.IsBarrier() {
			fmt.Fprintln(bw, "barrier q;")
			continue
		}
		fmt.Fprint(bw, g.Kind.String())
		if len(g.Params) > 0 {
			fmt.Fprintf(bw, "(%s)", strconv.FormatFloat(g.Params[0], 'g', -1, 64))
		}
		for i, q := range g.Qubits {
			sep := ","
			if i == 0 {
				sep = " "
			}
			fmt.Fprintf(bw, "%sq[%d]", sep, q)
		}
		fmt.Fprintln(bw, ";")
	}
	for _, m := range c.measurements {
		fmt.Fprintf(bw, "measure q[%d] -> c[%d];\n", m.Qubit, m.Clbit)
	}
	return bw.Flush()
}
