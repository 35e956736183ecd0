package service

import (
	"testing"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddressInput() AddressInput {
	return AddressInput{
		FullName:   " Anna Smirnova ",
		Phone:      "+79991112233",
		Street:     "Nevsky 10",
		City:       "Saint Petersburg",
		PostalCode: "190000",
	}
}

func TestAddressCreateFirstBecomesDefault(t *testing.T) {
	db := openServiceTestDB(t)
	user := seedUser(t, db, "addr@example.com")
	svc := NewAddressService(repository.NewAddressRepository(db), repository.NewOrderRepository(db))

	first, err := svc.Create(user.ID, validAddressInput())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "Anna Smirnova", first.FullName)
	assert.Equal(t, "Russia", first.Country)

	second, err := svc.Create(user.ID, validAddressInput())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	require.NoError(t, svc.SetDefault(user.ID, second.ID))
	list, err := svc.List(user.ID)
	require.NoError(t, err)
	defaults := 0
	for _, item := range list {
		if item.IsDefault {
			defaults++
			assert.Equal(t, second.ID, item.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestAddressValidationAndOwnership(t *testing.T) {
	db := openServiceTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	svc := NewAddressService(repository.NewAddressRepository(db), repository.NewOrderRepository(db))

	input := validAddressInput()
	input.City = "  "
	_, err := svc.Create(owner.ID, input)
	assert.ErrorIs(t, err, ErrAddressInvalid)

	address, err := svc.Create(owner.ID, validAddressInput())
	require.NoError(t, err)

	_, err = svc.Update(other.ID, address.ID, validAddressInput())
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.ErrorIs(t, svc.Delete(other.ID, address.ID), ErrAddressNotFound)
	assert.ErrorIs(t, svc.SetDefault(other.ID, address.ID), ErrAddressNotFound)
}

func TestAddressDeleteRejectedWhenReferencedByOrder(t *testing.T) {
	db := openServiceTestDB(t)
	user := seedUser(t, db, "ref@example.com")
	address := seedAddress(t, db, user.ID)
	seedOrder(t, db, user.ID, address.ID, "ADDRREF000000001", constants.OrderStatusPending)
	free := seedAddress(t, db, user.ID)
	svc := NewAddressService(repository.NewAddressRepository(db), repository.NewOrderRepository(db))

	assert.ErrorIs(t, svc.Delete(user.ID, address.ID), ErrAddressInUse)
	require.NoError(t, svc.Delete(user.ID, free.ID))

	list, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, address.ID, list[0].ID)
}
