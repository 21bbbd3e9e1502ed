// Package api
package api

import (
	"github.com/labstack/echo"
)

// RestServer define all API expose
type RestServer interface {
	// General
	Ping(c echo.Context) error
	Status(c echo.Context) error
	Events(c echo.Context) error

	// Organizations
	Organizations(c echo.Context) error
	Organization(c echo.Context) error
	Profile(c echo.Context) error
	RegisterFlatOrg(c echo.Context) error
	RegisterWeightedOrg(c echo.Context) error
	IssueShares(c echo.Context) error
	BurnShares(c echo.Context) error
	BatchIssueShares(c echo.Context) error
	BatchBurnShares(c echo.Context) error
	ReserveShares(c echo.Context) error
	UnreserveShares(c echo.Context) error
	LockShares(c echo.Context) error
	UnlockShares(c echo.Context) error

	// Currency
	Balance(c echo.Context) error
	Transfer(c echo.Context) error

	// Votes
	Votes(c echo.Context) error
	Vote(c echo.Context) error
	Receipts(c echo.Context) error
	SubmitVote(c echo.Context) error

	// Bank
	Banks(c echo.Context) error
	Bank(c echo.Context) error
	OpenBankAccount(c echo.Context) error
	Spends(c echo.Context) error
	Spend(c echo.Context) error
	ProposeSpend(c echo.Context) error
	TriggerSpendVote(c echo.Context) error
	PollSpend(c echo.Context) error
	SudoApproveSpend(c echo.Context) error

	// Court
	Disputes(c echo.Context) error
	Dispute(c echo.Context) error
	RegisterDispute(c echo.Context) error
	RaiseDispute(c echo.Context) error
	PollDispute(c echo.Context) error

	// Donate
	Donate(c echo.Context) error

	IPrivate
}

func bind(gr *echo.Group, srv RestServer) {
	apis := []restDefinition{
		{method: echo.GET, path: "/ping", fn: srv.Ping},
		{method: echo.GET, path: "/status", fn: srv.Status},
		{method: echo.GET, path: "/events", fn: srv.Events},

		{method: echo.GET, path: "/orgs", fn: srv.Organizations},
		{method: echo.GET, path: "/orgs/:orgID", fn: srv.Organization},
		{method: echo.GET, path: "/orgs/:orgID/members/:account", fn: srv.Profile},
		{method: echo.POST, path: "/orgs/flat", fn: srv.RegisterFlatOrg},
		{method: echo.POST, path: "/orgs/weighted", fn: srv.RegisterWeightedOrg},
		{method: echo.POST, path: "/orgs/:orgID/shares/issue", fn: srv.IssueShares},
		{method: echo.POST, path: "/orgs/:orgID/shares/burn", fn: srv.BurnShares},
		{method: echo.POST, path: "/orgs/:orgID/shares/batch/issue", fn: srv.BatchIssueShares},
		{method: echo.POST, path: "/orgs/:orgID/shares/batch/burn", fn: srv.BatchBurnShares},
		{method: echo.PUT, path: "/orgs/:orgID/members/:account/reserve", fn: srv.ReserveShares},
		{method: echo.PUT, path: "/orgs/:orgID/members/:account/unreserve", fn: srv.UnreserveShares},
		{method: echo.PUT, path: "/orgs/:orgID/members/:account/lock", fn: srv.LockShares},
		{method: echo.PUT, path: "/orgs/:orgID/members/:account/unlock", fn: srv.UnlockShares},
		{method: echo.POST, path: "/orgs/:orgID/donations", fn: srv.Donate},

		{method: echo.GET, path: "/accounts/:account", fn: srv.Balance},
		{method: echo.POST, path: "/transfers", fn: srv.Transfer},

		{method: echo.GET, path: "/votes", fn: srv.Votes},
		{method: echo.GET, path: "/votes/:voteID", fn: srv.Vote},
		{method: echo.GET, path: "/votes/:voteID/receipts", fn: srv.Receipts},
		{method: echo.POST, path: "/votes/:voteID", fn: srv.SubmitVote},

		{method: echo.GET, path: "/banks", fn: srv.Banks},
		{method: echo.POST, path: "/banks", fn: srv.OpenBankAccount},
		{method: echo.GET, path: "/banks/:bankID", fn: srv.Bank},
		{method: echo.GET, path: "/banks/:bankID/spends", fn: srv.Spends},
		{method: echo.POST, path: "/banks/:bankID/spends", fn: srv.ProposeSpend},
		{method: echo.GET, path: "/banks/:bankID/spends/:spendID", fn: srv.Spend},
		{method: echo.PUT, path: "/banks/:bankID/spends/:spendID/vote", fn: srv.TriggerSpendVote},
		{method: echo.PUT, path: "/banks/:bankID/spends/:spendID/poll", fn: srv.PollSpend},
		{method: echo.PUT, path: "/banks/:bankID/spends/:spendID/approve", fn: srv.SudoApproveSpend},

		{method: echo.GET, path: "/disputes", fn: srv.Disputes},
		{method: echo.POST, path: "/disputes", fn: srv.RegisterDispute},
		{method: echo.GET, path: "/disputes/:disputeID", fn: srv.Dispute},
		{method: echo.PUT, path: "/disputes/:disputeID/raise", fn: srv.RaiseDispute},
		{method: echo.PUT, path: "/disputes/:disputeID/poll", fn: srv.PollDispute},
	}
	register(gr, apis)
}
