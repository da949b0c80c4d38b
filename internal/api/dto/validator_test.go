package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators_CatalogStatus(t *testing.T) {
	require.NoError(t, RegisterValidators())

	enable, disable, invalid := 1, 0, 5

	tests := []struct {
		name    string
		status  *int
		wantErr bool
	}{
		{"未传状态", nil, false},
		{"起售", &enable, false},
		{"停售", &disable, false},
		{"非法状态", &invalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := DishPageQuery{Status: tt.status}
			err := binding.Validator.ValidateStruct(&q)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDishRequest_ToModel(t *testing.T) {
	req := DishRequest{
		Name:       "辣子鸡",
		CategoryID: 3,
		Flavors: []DishFlavorRequest{
			{Name: "辣度", Value: []string{"微辣", "特辣"}},
		},
	}

	dish, flavors := req.ToModel()
	assert.Equal(t, 0, dish.Status)
	assert.Equal(t, int64(3), dish.CategoryID)
	require.Len(t, flavors, 1)
	assert.Equal(t, []string{"微辣", "特辣"}, []string(flavors[0].Value))
	assert.Zero(t, flavors[0].DishID)
}

func TestNewPageResult_EmptyRecords(t *testing.T) {
	page := NewPageResult[DishVO](nil, 0)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}
