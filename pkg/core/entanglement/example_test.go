package entanglement_test

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
)

func ExampleProtocol_CreateEntanglement() {
	proto, err := entanglement.NewProtocol(entanglement.DefaultConfig(),
		entanglement.WithSource(entanglement.NewSource(1)),
		entanglement.WithSleeper(func(context.Context, time.Duration) error { return nil }),
		entanglement.WithLogger(log.New(io.Discard)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	alice, bob := entanglement.NewNode("alice"), entanglement.NewNode("bob")
	r, err := proto.CreateEntanglement(context.Background(), alice, bob)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r.NodeA, "<->", r.NodeB)
	fmt.Println(r.ProtocolVersion)
	fmt.Println(len(proto.History()))
	// Output:
	// alice <-> bob
	// LUXBIN-EIP-001
	// 1
}

func ExampleDecouplingCircuit() {
	c := entanglement.DecouplingCircuit(entanglement.XY4, 2, 0.5)
	for _, g := range c.Gates() {
		fmt.Println(g)
	}
	// Output:
	// x[0]
	// barrier[0 1]
	// rz(0.5)[0]
	// y[0]
	// barrier[0 1]
	// rz(0.5)[0]
}
