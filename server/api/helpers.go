// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"

	"github.com/kardiachain/governance-backend/types"
)

// HeaderAccount carries the signer of a call. Signatures are checked upstream.
const HeaderAccount = "X-Account"

func getPagingOption(c echo.Context) (*types.Pagination, int, int) {
	pageParams := c.QueryParam("page")
	limitParams := c.QueryParam("limit")
	if pageParams == "" && limitParams == "" {
		return nil, 0, 0
	}
	page, err := strconv.Atoi(pageParams)
	if err != nil || page < 1 {
		page = 1
	}
	page = page - 1
	limit, err := strconv.Atoi(limitParams)
	if err != nil {
		limit = 25
	}
	pagination := &types.Pagination{
		Skip:  page * limit,
		Limit: limit,
	}
	pagination.Sanitize()
	return pagination, page + 1, pagination.Limit
}

func (s *Server) isAdmin(c echo.Context) bool {
	return s.authorizationSecret != "" && c.Request().Header.Get("Authorization") == s.authorizationSecret
}

func caller(c echo.Context) (types.AccountID, error) {
	return types.ParseAccount(c.Request().Header.Get(HeaderAccount))
}

func uintParam(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

func accountParam(c echo.Context) (types.AccountID, error) {
	return types.ParseAccount(c.Param("account"))
}

func bankSpendParam(c echo.Context) (types.BankSpend, error) {
	bank, err := uintParam(c, "bankID")
	if err != nil {
		return types.BankSpend{}, err
	}
	spend, err := uintParam(c, "spendID")
	if err != nil {
		return types.BankSpend{}, err
	}
	return types.NewBankSpend(types.BankID(bank), types.SpendID(spend)), nil
}

func optionalAccount(s *string) (*types.AccountID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	a, err := types.ParseAccount(*s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func optionalHash(s string) (*types.Hash, error) {
	if s == "" {
		return nil, nil
	}
	h, err := types.ParseHash(s)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
