package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/travel-gateway/models"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterProvider(Descriptor{Name: "nominatim", Kind: KindNominatim, Timeout: 15 * time.Second}))
	require.NoError(t, r.RegisterProvider(Descriptor{Name: "photon", Kind: KindPhoton, Timeout: 10 * time.Second}))
	require.NoError(t, r.RegisterProvider(Descriptor{Name: "overpass", Kind: KindOverpass, Timeout: 30 * time.Second}))

	t.Run("duplicate registration", func(t *testing.T) {
		err := r.RegisterProvider(Descriptor{Name: "photon", Kind: KindPhoton})
		assert.ErrorIs(t, err, ErrProviderAlreadyRegistered)
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := r.RegisterProvider(Descriptor{Name: "x", Kind: Kind("fax")})
		assert.ErrorIs(t, err, ErrKindNotSupported)
	})

	t.Run("empty name", func(t *testing.T) {
		assert.Error(t, r.RegisterProvider(Descriptor{Kind: KindPhoton}))
	})

	t.Run("operation is derived from kind", func(t *testing.T) {
		desc, err := r.GetProvider("nominatim")
		require.NoError(t, err)
		assert.Equal(t, models.OperationGeocode, desc.Operation)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.GetProvider("missing")
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("listing", func(t *testing.T) {
		assert.Equal(t, []string{"nominatim", "overpass", "photon"}, r.ListProviders())
		assert.Equal(t, 3, r.GetProviderCount())

		geocoders := r.ListForOperation(models.OperationGeocode)
		require.Len(t, geocoders, 2)
		assert.Equal(t, "nominatim", geocoders[0].Name)
		assert.Equal(t, "photon", geocoders[1].Name)
	})
}
