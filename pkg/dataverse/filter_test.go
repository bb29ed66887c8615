package dataverse_test

import (
	"testing"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/stretchr/testify/assert"
)

func TestComparisonOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		clause   string
		expected string
	}{
		{"eq string", dataverse.Eq("name", "Fourth Coffee"), "name eq 'Fourth Coffee'"},
		{"eq int", dataverse.Eq("statecode", 0), "statecode eq 0"},
		{"eq float", dataverse.Eq("revenue", 2.5), "revenue eq 2.5"},
		{"eq bool", dataverse.Eq("donotemail", true), "donotemail eq true"},
		{"eq nil", dataverse.Eq("parentaccountid", nil), "parentaccountid eq null"},
		{
			"eq uuid unquoted",
			dataverse.Eq("accountid", "9e4bd02b-36ad-44d4-b6b1-4448f5d2dd41"),
			"accountid eq 9e4bd02b-36ad-44d4-b6b1-4448f5d2dd41",
		},
		{
			"eq uppercase uuid quoted",
			dataverse.Eq("accountid", "9E4BD02B-36AD-44D4-B6B1-4448F5D2DD41"),
			"accountid eq '9E4BD02B-36AD-44D4-B6B1-4448F5D2DD41'",
		},
		{
			"eq braced uuid quoted",
			dataverse.Eq("accountid", "{9e4bd02b-36ad-44d4-b6b1-4448f5d2dd41}"),
			"accountid eq '{9e4bd02b-36ad-44d4-b6b1-4448f5d2dd41}'",
		},
		{"ne", dataverse.Ne("statecode", 1), "statecode ne 1"},
		{"gt", dataverse.Gt("revenue", 1000), "revenue gt 1000"},
		{"ge", dataverse.Ge("revenue", 1000), "revenue ge 1000"},
		{"lt", dataverse.Lt("revenue", 1000), "revenue lt 1000"},
		{"le", dataverse.Le("revenue", 1000), "revenue le 1000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.clause)
		})
	}
}

func TestFilterOptions(t *testing.T) {
	t.Parallel()

	t.Run("lambda indicator", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			"c/fullname eq 'Jane'",
			dataverse.Eq("fullname", "Jane", dataverse.WithLambda("c")),
		)
	})

	t.Run("group", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			"(revenue gt 1000)",
			dataverse.Gt("revenue", 1000, dataverse.WithGroup()),
		)
	})

	t.Run("both", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			"(c/revenue gt 1000)",
			dataverse.Gt("revenue", 1000, dataverse.WithLambda("c"), dataverse.WithGroup()),
		)
	})
}

func TestLogicalOperators(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"a eq 1 and b eq 2",
		dataverse.AllOf([]string{"a eq 1", "b eq 2"}),
	)
	assert.Equal(
		t,
		"(a eq 1 or b eq 2)",
		dataverse.AnyOf([]string{"a eq 1", "b eq 2"}, dataverse.WithGroup()),
	)
	assert.Equal(t, "not contains(name,'coffee')", dataverse.Not("contains(name,'coffee')"))
}

func TestStandardQueryFunctions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "contains(name,'coffee')", dataverse.Contains("name", "coffee"))
	assert.Equal(t, "endswith(name,'Ltd')", dataverse.EndsWith("name", "Ltd"))
	assert.Equal(t, "startswith(name,'Fourth')", dataverse.StartsWith("name", "Fourth"))

	// Query function values are always quoted, UUIDs included.
	assert.Equal(
		t,
		"contains(accountid,'9e4bd02b-36ad-44d4-b6b1-4448f5d2dd41')",
		dataverse.Contains("accountid", "9e4bd02b-36ad-44d4-b6b1-4448f5d2dd41"),
	)
}

func TestLambdaOperators(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"contacts/any(c:c/fullname eq 'Jane')",
		dataverse.Any("contacts", "c", dataverse.Eq("fullname", "Jane", dataverse.WithLambda("c"))),
	)
	assert.Equal(
		t,
		"contacts/all(c:c/statecode eq 0)",
		dataverse.All("contacts", "c", dataverse.Eq("statecode", 0, dataverse.WithLambda("c"))),
	)

	// An empty operation checks for a non-empty collection.
	assert.Equal(t, "contacts/any()", dataverse.Any("contacts", "c", ""))
}

func TestSpecialValueFunctions(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.In(PropertyName='statuscode',PropertyValues=['1','2'])",
		dataverse.In("statuscode", []any{1, 2}),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.NotIn(PropertyName='statuscode',PropertyValues=['1'])",
		dataverse.NotIn("statuscode", []any{1}),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.Between(PropertyName='revenue',PropertyValues=['100','200'])",
		dataverse.Between("revenue", 100, 200),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.NotBetween(PropertyName='revenue',PropertyValues=['100','200'])",
		dataverse.NotBetween("revenue", 100, 200),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.ContainValues(PropertyName='choices',PropertyValues=['a','b'])",
		dataverse.ContainValues("choices", []any{"a", "b"}),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.DoesNotContainValues(PropertyName='choices',PropertyValues=['a'])",
		dataverse.NotContainValues("choices", []any{"a"}),
	)
}

func TestHierarchyFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		clause   string
		expected string
	}{
		{
			"above",
			dataverse.Above("accountid", "row_id"),
			"Microsoft.Dynamics.CRM.Above(PropertyName='accountid',PropertyValue='row_id')",
		},
		{
			"above or equal",
			dataverse.AboveOrEqual("accountid", "row_id"),
			"Microsoft.Dynamics.CRM.AboveOrEqual(PropertyName='accountid',PropertyValue='row_id')",
		},
		{
			"under",
			dataverse.Under("accountid", "row_id"),
			"Microsoft.Dynamics.CRM.Under(PropertyName='accountid',PropertyValue='row_id')",
		},
		{
			"under or equal",
			dataverse.UnderOrEqual("accountid", "row_id"),
			"Microsoft.Dynamics.CRM.UnderOrEqual(PropertyName='accountid',PropertyValue='row_id')",
		},
		{
			"not under",
			dataverse.NotUnder("accountid", "row_id"),
			"Microsoft.Dynamics.CRM.NotUnder(PropertyName='accountid',PropertyValue='row_id')",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.clause)
		})
	}
}

func TestDateFunctions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Microsoft.Dynamics.CRM.Today(PropertyName='createdon')", dataverse.Today("createdon"))
	assert.Equal(t, "Microsoft.Dynamics.CRM.Tomorrow(PropertyName='createdon')", dataverse.Tomorrow("createdon"))
	assert.Equal(t, "Microsoft.Dynamics.CRM.Yesterday(PropertyName='createdon')", dataverse.Yesterday("createdon"))

	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.On(PropertyName='createdon',PropertyValue='2026-08-25')",
		dataverse.On("createdon", "2026-08-25"),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.OnOrAfter(PropertyName='createdon',PropertyValue='2026-08-25')",
		dataverse.OnOrAfter("createdon", "2026-08-25"),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.OnOrBefore(PropertyName='createdon',PropertyValue='2026-08-25')",
		dataverse.OnOrBefore("createdon", "2026-08-25"),
	)
}

func TestFiscalFunctions(t *testing.T) {
	t.Parallel()

	// Fiscal period and year references are numbers and stay unquoted.
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.InFiscalPeriod(PropertyName='createdon',PropertyValue=3)",
		dataverse.InFiscalPeriod("createdon", 3),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.InFiscalYear(PropertyName='createdon',PropertyValue=2026)",
		dataverse.InFiscalYear("createdon", 2026),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.InFiscalPeriodAndYear(PropertyName='createdon',PropertyValue1=3,PropertyValue2=2026)",
		dataverse.InFiscalPeriodAndYear("createdon", 3, 2026),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.InOrAfterFiscalPeriodAndYear(PropertyName='createdon',PropertyValue1=3,PropertyValue2=2026)",
		dataverse.InOrAfterFiscalPeriodAndYear("createdon", 3, 2026),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.InOrBeforeFiscalPeriodAndYear(PropertyName='createdon',PropertyValue1=3,PropertyValue2=2026)",
		dataverse.InOrBeforeFiscalPeriodAndYear("createdon", 3, 2026),
	)
}

func TestRelativeDateFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		clause   string
		expected string
	}{
		{dataverse.ThisFiscalPeriod("createdon"), "ThisFiscalPeriod"},
		{dataverse.ThisFiscalYear("createdon"), "ThisFiscalYear"},
		{dataverse.ThisMonth("createdon"), "ThisMonth"},
		{dataverse.ThisWeek("createdon"), "ThisWeek"},
		{dataverse.ThisYear("createdon"), "ThisYear"},
		{dataverse.Last7Days("createdon"), "Last7Days"},
		{dataverse.LastFiscalPeriod("createdon"), "LastFiscalPeriod"},
		{dataverse.LastFiscalYear("createdon"), "LastFiscalYear"},
		{dataverse.LastMonth("createdon"), "LastMonth"},
		{dataverse.LastWeek("createdon"), "LastWeek"},
		{dataverse.LastYear("createdon"), "LastYear"},
		{dataverse.NextFiscalPeriod("createdon"), "NextFiscalPeriod"},
		{dataverse.NextFiscalYear("createdon"), "NextFiscalYear"},
		{dataverse.NextMonth("createdon"), "NextMonth"},
		{dataverse.NextWeek("createdon"), "NextWeek"},
		{dataverse.NextYear("createdon"), "NextYear"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, "Microsoft.Dynamics.CRM."+tt.expected+"(PropertyName='createdon')", tt.clause)
		})
	}
}

func TestRelativeRangeFunctions(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.LastXDays(PropertyName='createdon',PropertyValue=7)",
		dataverse.LastX("createdon", 7, dataverse.Days),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.NextXFiscalPeriods(PropertyName='createdon',PropertyValue=2)",
		dataverse.NextX("createdon", 2, dataverse.FiscalPeriods),
	)
	assert.Equal(
		t,
		"Microsoft.Dynamics.CRM.OlderThanXMinutes(PropertyName='createdon',PropertyValue=30)",
		dataverse.OlderThanX("createdon", 30, dataverse.Minutes),
	)
}

func TestUserFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		clause   string
		expected string
	}{
		{dataverse.EqualBusinessID("owningbusinessunit"), "EqualBusinessId"},
		{dataverse.NotBusinessID("owningbusinessunit"), "NotBusinessId"},
		{dataverse.EqualUserID("ownerid"), "EqualUserId"},
		{dataverse.NotUserID("ownerid"), "NotUserId"},
		{dataverse.EqualUserLanguage("languagecode"), "EqualUserLanguage"},
		{dataverse.EqualUserOrUserHierarchy("ownerid"), "EqualUserOrUserHierarchy"},
		{dataverse.EqualUserOrUserHierarchyAndTeams("ownerid"), "EqualUserOrUserHierarchyAndTeams"},
		{dataverse.EqualUserOrUserTeams("ownerid"), "EqualUserOrUserTeams"},
		{dataverse.EqualUserTeams("ownerid"), "EqualUserTeams"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, tt.clause, "Microsoft.Dynamics.CRM."+tt.expected+"(PropertyName=")
		})
	}
}
