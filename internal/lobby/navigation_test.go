package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigationToggle(t *testing.T) {
	nav := NewNavigation()
	assert.True(t, nav.OnMenu(), "starts on the menu")

	nav.ToggleMenu()
	assert.False(t, nav.OnMenu())
	nav.ToggleMenu()
	assert.True(t, nav.OnMenu())
}

func TestNavigationModal(t *testing.T) {
	nav := NewNavigation()

	nav.OpenModal(5, 2)
	assert.Equal(t, Modal{Open: true, TableID: 5, SeatID: 2}, nav.Modal())

	t.Run("opens from either view", func(t *testing.T) {
		nav.ToggleMenu()
		nav.OpenModal(6, 0)
		assert.Equal(t, Modal{Open: true, TableID: 6, SeatID: 0}, nav.Modal())
	})

	t.Run("close clears the target", func(t *testing.T) {
		nav.CloseModal()
		assert.Equal(t, Modal{}, nav.Modal())
	})
}

func TestNavigationTableClosed(t *testing.T) {
	nav := NewNavigation()
	nav.OpenModal(5, 2)

	nav.TableClosed(9)
	assert.True(t, nav.Modal().Open, "unrelated table leaves the modal alone")

	nav.TableClosed(5)
	assert.Equal(t, Modal{}, nav.Modal(), "modal referencing the closed table is cleared")
}

func TestNavigationReset(t *testing.T) {
	nav := NewNavigation()
	nav.ToggleMenu()
	nav.OpenModal(5, 2)

	nav.Reset()
	assert.True(t, nav.OnMenu())
	assert.Equal(t, Modal{}, nav.Modal())
}
