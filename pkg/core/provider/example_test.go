package provider_test

import (
	"fmt"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
)

func ExampleLeastBusy() {
	backends := []provider.BackendInfo{
		{Name: "ibm_brisbane", NumQubits: 127, Status: provider.StatusOnline, QueueLength: 12},
		{Name: "ibm_kyiv", NumQubits: 127, Status: provider.StatusMaintenance, QueueLength: 0},
		{Name: "ibm_sherbrooke", NumQubits: 127, Status: provider.StatusOnline, QueueLength: 4},
	}

	b, ok := provider.LeastBusy(backends, 2)
	fmt.Println(b.Name, ok)
	// Output:
	// ibm_sherbrooke true
}
