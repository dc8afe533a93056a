package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"customer-api/internal/api/handler/dto"
	"customer-api/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRequestToDraft(t *testing.T) {
	phone := "+6281234567890"
	req := dto.CustomerRequest{
		CustomerCode: "C100",
		FullName:     "Jane Doe",
		Email:        "jane.doe@example.com",
		Phone:        &phone,
		Status:       "inactive",
	}

	draft := req.ToDraft()

	assert.Equal(t, "C100", draft.Code)
	assert.Equal(t, "Jane Doe", draft.FullName)
	require.NotNil(t, draft.Phone)
	assert.Equal(t, phone, *draft.Phone)
	assert.Nil(t, draft.Address)
	assert.Equal(t, customer.Status("inactive"), draft.Status)
}

func TestCustomerPatchRequestToPatch(t *testing.T) {
	t.Run("Absent fields stay nil", func(t *testing.T) {
		var req dto.CustomerPatchRequest
		require.NoError(t, json.Unmarshal([]byte(`{"fullName":"New Name"}`), &req))

		patch := req.ToPatch()

		require.NotNil(t, patch.FullName)
		assert.Equal(t, "New Name", *patch.FullName)
		assert.Nil(t, patch.Code)
		assert.Nil(t, patch.Email)
		assert.Nil(t, patch.Phone)
		assert.Nil(t, patch.Address)
		assert.Nil(t, patch.Status)
	})

	t.Run("Explicit empty string is carried, not dropped", func(t *testing.T) {
		var req dto.CustomerPatchRequest
		require.NoError(t, json.Unmarshal([]byte(`{"customerCode":""}`), &req))

		patch := req.ToPatch()

		require.NotNil(t, patch.Code)
		assert.Equal(t, "", *patch.Code)
	})
}

func TestNewCustomerResponse(t *testing.T) {
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	cust := &customer.Customer{
		CustomerID: 42,
		Code:       "C100",
		FullName:   "Jane Doe",
		Email:      "jane.doe@example.com",
		Status:     customer.StatusActive,
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	resp := dto.NewCustomerResponse(cust)

	assert.Equal(t, "42", resp.CustomerID)
	assert.Equal(t, "C100", resp.CustomerCode)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Nil(t, resp.Phone)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"phone"`)
}

func TestNewCustomerResponseNil(t *testing.T) {
	assert.Equal(t, dto.CustomerResponse{}, dto.NewCustomerResponse(nil))
}

func TestNewCustomerPageResponse(t *testing.T) {
	t.Run("Nil page yields empty customers slice", func(t *testing.T) {
		resp := dto.NewCustomerPageResponse(nil)
		assert.NotNil(t, resp.Customers)
		assert.Empty(t, resp.Customers)
	})

	t.Run("Page fields are mapped through", func(t *testing.T) {
		page := &customer.Page{
			Customers:   []*customer.Customer{{CustomerID: 1, Code: "C100"}},
			CurrentPage: 2,
			TotalItems:  25,
			TotalPages:  3,
		}

		resp := dto.NewCustomerPageResponse(page)

		assert.Equal(t, 2, resp.CurrentPage)
		assert.Equal(t, int64(25), resp.TotalItems)
		assert.Equal(t, 3, resp.TotalPages)
		require.Len(t, resp.Customers, 1)
		assert.Equal(t, "C100", resp.Customers[0].CustomerCode)
	})
}
