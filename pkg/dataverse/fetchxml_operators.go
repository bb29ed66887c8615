package dataverse

// FetchXMLOperator is a comparison operator accepted by FetchXML condition
// elements.
type FetchXMLOperator string

const (
	FetchEq                            FetchXMLOperator = "eq"
	FetchNeq                           FetchXMLOperator = "neq"
	FetchNe                            FetchXMLOperator = "ne"
	FetchGt                            FetchXMLOperator = "gt"
	FetchGe                            FetchXMLOperator = "ge"
	FetchLe                            FetchXMLOperator = "le"
	FetchLt                            FetchXMLOperator = "lt"
	FetchLike                          FetchXMLOperator = "like"
	FetchNotLike                       FetchXMLOperator = "not-like"
	FetchIn                            FetchXMLOperator = "in"
	FetchNotIn                         FetchXMLOperator = "not-in"
	FetchBetween                       FetchXMLOperator = "between"
	FetchNotBetween                    FetchXMLOperator = "not-between"
	FetchNull                          FetchXMLOperator = "null"
	FetchNotNull                       FetchXMLOperator = "not-null"
	FetchYesterday                     FetchXMLOperator = "yesterday"
	FetchToday                         FetchXMLOperator = "today"
	FetchTomorrow                      FetchXMLOperator = "tomorrow"
	FetchLastSevenDays                 FetchXMLOperator = "last-seven-days"
	FetchNextSevenDays                 FetchXMLOperator = "next-seven-days"
	FetchLastWeek                      FetchXMLOperator = "last-week"
	FetchThisWeek                      FetchXMLOperator = "this-week"
	FetchNextWeek                      FetchXMLOperator = "next-week"
	FetchLastMonth                     FetchXMLOperator = "last-month"
	FetchThisMonth                     FetchXMLOperator = "this-month"
	FetchNextMonth                     FetchXMLOperator = "next-month"
	FetchOn                            FetchXMLOperator = "on"
	FetchOnOrBefore                    FetchXMLOperator = "on-or-before"
	FetchOnOrAfter                     FetchXMLOperator = "on-or-after"
	FetchLastYear                      FetchXMLOperator = "last-year"
	FetchThisYear                      FetchXMLOperator = "this-year"
	FetchNextYear                      FetchXMLOperator = "next-year"
	FetchLastXHours                    FetchXMLOperator = "last-x-hours"
	FetchNextXHours                    FetchXMLOperator = "next-x-hours"
	FetchLastXDays                     FetchXMLOperator = "last-x-days"
	FetchNextXDays                     FetchXMLOperator = "next-x-days"
	FetchLastXWeeks                    FetchXMLOperator = "last-x-weeks"
	FetchNextXWeeks                    FetchXMLOperator = "next-x-weeks"
	FetchLastXMonths                   FetchXMLOperator = "last-x-months"
	FetchNextXMonths                   FetchXMLOperator = "next-x-months"
	FetchOlderThanXMonths              FetchXMLOperator = "olderthan-x-months"
	FetchOlderThanXYears               FetchXMLOperator = "olderthan-x-years"
	FetchOlderThanXWeeks               FetchXMLOperator = "olderthan-x-weeks"
	FetchOlderThanXDays                FetchXMLOperator = "olderthan-x-days"
	FetchOlderThanXHours               FetchXMLOperator = "olderthan-x-hours"
	FetchOlderThanXMinutes             FetchXMLOperator = "olderthan-x-minutes"
	FetchLastXYears                    FetchXMLOperator = "last-x-years"
	FetchNextXYears                    FetchXMLOperator = "next-x-years"
	FetchEqUserID                      FetchXMLOperator = "eq-userid"
	FetchNeUserID                      FetchXMLOperator = "ne-userid"
	FetchEqUserTeams                   FetchXMLOperator = "eq-userteams"
	FetchEqUserOrUserTeams             FetchXMLOperator = "eq-useroruserteams"
	FetchEqUserOrUserHierarchy         FetchXMLOperator = "eq-useroruserhierarchy"
	FetchEqUserOrUserHierarchyAndTeams FetchXMLOperator = "eq-useroruserhierarchyandteams"
	FetchEqBusinessID                  FetchXMLOperator = "eq-businessid"
	FetchNeBusinessID                  FetchXMLOperator = "ne-businessid"
	FetchEqUserLanguage                FetchXMLOperator = "eq-userlanguage"
	FetchThisFiscalYear                FetchXMLOperator = "this-fiscal-year"
	FetchThisFiscalPeriod              FetchXMLOperator = "this-fiscal-period"
	FetchNextFiscalYear                FetchXMLOperator = "next-fiscal-year"
	FetchNextFiscalPeriod              FetchXMLOperator = "next-fiscal-period"
	FetchLastFiscalYear                FetchXMLOperator = "last-fiscal-year"
	FetchLastFiscalPeriod              FetchXMLOperator = "last-fiscal-period"
	FetchLastXFiscalYears              FetchXMLOperator = "last-x-fiscal-years"
	FetchLastXFiscalPeriods            FetchXMLOperator = "last-x-fiscal-periods"
	FetchNextXFiscalYears              FetchXMLOperator = "next-x-fiscal-years"
	FetchNextXFiscalPeriods            FetchXMLOperator = "next-x-fiscal-periods"
	FetchInFiscalYear                  FetchXMLOperator = "in-fiscal-year"
	FetchInFiscalPeriod                FetchXMLOperator = "in-fiscal-period"
	FetchInFiscalPeriodAndYear         FetchXMLOperator = "in-fiscal-period-and-year"
	FetchInOrBeforeFiscalPeriodAndYear FetchXMLOperator = "in-or-before-fiscal-period-and-year"
	FetchInOrAfterFiscalPeriodAndYear  FetchXMLOperator = "in-or-after-fiscal-period-and-year"
	FetchBeginsWith                    FetchXMLOperator = "begins-with"
	FetchNotBeginsWith                 FetchXMLOperator = "not-begin-with"
	FetchEndsWith                      FetchXMLOperator = "ends-with"
	FetchNotEndsWith                   FetchXMLOperator = "not-end-with"
	FetchUnder                         FetchXMLOperator = "under"
	FetchEqOrUnder                     FetchXMLOperator = "eq-or-under"
	FetchNotUnder                      FetchXMLOperator = "not-under"
	FetchAbove                         FetchXMLOperator = "above"
	FetchEqOrAbove                     FetchXMLOperator = "eq-or-above"
	FetchContainValues                 FetchXMLOperator = "contain-values"
	FetchNotContainValues              FetchXMLOperator = "not-contain-values"
)

var fetchOperators = map[FetchXMLOperator]struct{}{
	FetchEq:                            {},
	FetchNeq:                           {},
	FetchNe:                            {},
	FetchGt:                            {},
	FetchGe:                            {},
	FetchLe:                            {},
	FetchLt:                            {},
	FetchLike:                          {},
	FetchNotLike:                       {},
	FetchIn:                            {},
	FetchNotIn:                         {},
	FetchBetween:                       {},
	FetchNotBetween:                    {},
	FetchNull:                          {},
	FetchNotNull:                       {},
	FetchYesterday:                     {},
	FetchToday:                         {},
	FetchTomorrow:                      {},
	FetchLastSevenDays:                 {},
	FetchNextSevenDays:                 {},
	FetchLastWeek:                      {},
	FetchThisWeek:                      {},
	FetchNextWeek:                      {},
	FetchLastMonth:                     {},
	FetchThisMonth:                     {},
	FetchNextMonth:                     {},
	FetchOn:                            {},
	FetchOnOrBefore:                    {},
	FetchOnOrAfter:                     {},
	FetchLastYear:                      {},
	FetchThisYear:                      {},
	FetchNextYear:                      {},
	FetchLastXHours:                    {},
	FetchNextXHours:                    {},
	FetchLastXDays:                     {},
	FetchNextXDays:                     {},
	FetchLastXWeeks:                    {},
	FetchNextXWeeks:                    {},
	FetchLastXMonths:                   {},
	FetchNextXMonths:                   {},
	FetchOlderThanXMonths:              {},
	FetchOlderThanXYears:               {},
	FetchOlderThanXWeeks:               {},
	FetchOlderThanXDays:                {},
	FetchOlderThanXHours:               {},
	FetchOlderThanXMinutes:             {},
	FetchLastXYears:                    {},
	FetchNextXYears:                    {},
	FetchEqUserID:                      {},
	FetchNeUserID:                      {},
	FetchEqUserTeams:                   {},
	FetchEqUserOrUserTeams:             {},
	FetchEqUserOrUserHierarchy:         {},
	FetchEqUserOrUserHierarchyAndTeams: {},
	FetchEqBusinessID:                  {},
	FetchNeBusinessID:                  {},
	FetchEqUserLanguage:                {},
	FetchThisFiscalYear:                {},
	FetchThisFiscalPeriod:              {},
	FetchNextFiscalYear:                {},
	FetchNextFiscalPeriod:              {},
	FetchLastFiscalYear:                {},
	FetchLastFiscalPeriod:              {},
	FetchLastXFiscalYears:              {},
	FetchLastXFiscalPeriods:            {},
	FetchNextXFiscalYears:              {},
	FetchNextXFiscalPeriods:            {},
	FetchInFiscalYear:                  {},
	FetchInFiscalPeriod:                {},
	FetchInFiscalPeriodAndYear:         {},
	FetchInOrBeforeFiscalPeriodAndYear: {},
	FetchInOrAfterFiscalPeriodAndYear:  {},
	FetchBeginsWith:                    {},
	FetchNotBeginsWith:                 {},
	FetchEndsWith:                      {},
	FetchNotEndsWith:                   {},
	FetchUnder:                         {},
	FetchEqOrUnder:                     {},
	FetchNotUnder:                      {},
	FetchAbove:                         {},
	FetchEqOrAbove:                     {},
	FetchContainValues:                 {},
	FetchNotContainValues:              {},
}

func (op FetchXMLOperator) valid() bool {
	_, ok := fetchOperators[op]

	return ok
}
