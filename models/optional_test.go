package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_Marshal(t *testing.T) {
	t.Run("Отсутствующее поле пропускается", func(t *testing.T) {
		p := UpdateVaultParams{Name: Some("Books")}
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Books"}`, string(data))
	})

	t.Run("Явный null сериализуется", func(t *testing.T) {
		p := UpdateVaultParams{Description: Null[string]()}
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"description":null}`, string(data))
	})

	t.Run("Значение и null вместе", func(t *testing.T) {
		p := UpdateVaultParams{Name: Some("Games"), Icon: Null[string]()}
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Games","icon":null}`, string(data))
	})
}

func TestOptional_Unmarshal(t *testing.T) {
	t.Run("Отсутствующее поле", func(t *testing.T) {
		var p UpdateVaultParams
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		assert.False(t, p.Name.Present)
		_, ok := p.Name.Get()
		assert.False(t, ok)
	})

	t.Run("Явный null", func(t *testing.T) {
		var p UpdateVaultParams
		require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &p))
		assert.True(t, p.Description.Present)
		assert.True(t, p.Description.Null)
		_, ok := p.Description.Get()
		assert.False(t, ok)
	})

	t.Run("Установленное значение", func(t *testing.T) {
		var p UpdateVaultParams
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Vinyl"}`), &p))
		v, ok := p.Name.Get()
		require.True(t, ok)
		assert.Equal(t, "Vinyl", v)
	})
}
