package dogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearby(t *testing.T) {
	at := func(id string, lat, lon float64, st Status) Dog {
		return Dog{ID: id, Latitude: lat, Longitude: lon, Status: st}
	}

	candidates := []Dog{
		at("sanjose", 9.9281, -84.0907, StatusAvailable),
		at("heredia", 10.0024, -84.1165, StatusAvailable),
		at("limon", 9.9907, -83.0360, StatusAvailable),
		at("reserved", 9.9300, -84.0800, StatusReserved),
		at("adopted", 9.9281, -84.0907, StatusAdopted),
	}

	ids := func(ds []Dog) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}

	assert.Equal(t, []string{"sanjose", "heredia"}, ids(Nearby(9.9281, -84.0907, 20, candidates)))
	assert.Equal(t, []string{"sanjose", "heredia", "limon"}, ids(Nearby(9.9281, -84.0907, 200, candidates)))

	// Radio 0: solo lo que está exactamente en el origen.
	assert.Equal(t, []string{"sanjose"}, ids(Nearby(9.9281, -84.0907, 0, candidates)))

	assert.Empty(t, Nearby(0, 0, 10, candidates))
	assert.NotNil(t, Nearby(0, 0, 10, nil))
}
