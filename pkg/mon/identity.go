package mon

import (
	"github.com/denisbrodbeck/machineid"
)

// Identity returns the stable origin identity of this host, used in
// publish topics so multiple publishers can share one broker.
func Identity() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return "uart-" + id
}
