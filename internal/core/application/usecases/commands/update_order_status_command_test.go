package commands_test

import (
	"testing"

	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	t.Run("should create valid command", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewUpdateOrderStatusCommand(id, order.Processing)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(id))
		assert.Equal(t, order.Processing, cmd.Status())
	})

	t.Run("should fail with invalid order id", func(t *testing.T) {
		var invalid kernel.UUID

		_, err := commands.NewUpdateOrderStatusCommand(invalid, order.Processing)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with unknown status", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(kernel.NewUUID(), order.Unknown)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value command fails validation", func(t *testing.T) {
		var cmd commands.UpdateOrderStatusCommand

		err := cmd.Validate()

		require.Error(t, err)
		assert.Equal(t, commands.ErrUpdateOrderStatusCommandIsNotConstructed, err)
	})
}
