package dataverse_test

import (
	"testing"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"aggregate(estimatedvalue with sum as total)",
		dataverse.Aggregate("estimatedvalue", dataverse.Sum, "total"),
	)
	assert.Equal(
		t,
		"aggregate(estimatedvalue with average as mean)",
		dataverse.Aggregate("estimatedvalue", dataverse.Average, "mean"),
	)
	assert.Equal(
		t,
		"aggregate(opportunityid with count as rows)",
		dataverse.Aggregate("opportunityid", dataverse.Count, "rows"),
	)
}

func TestGroupBy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "groupby((ownerid))", dataverse.GroupBy([]string{"ownerid"}))
	assert.Equal(t, "groupby((ownerid,statecode))", dataverse.GroupBy([]string{"ownerid", "statecode"}))
	assert.Equal(
		t,
		"groupby((ownerid),aggregate(estimatedvalue with sum as total))",
		dataverse.GroupBy(
			[]string{"ownerid"},
			dataverse.Aggregate("estimatedvalue", dataverse.Sum, "total"),
		),
	)
}

func TestFilteredGroupBy(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"filter(statecode eq 0)/groupby((ownerid),aggregate(estimatedvalue with max as best))",
		dataverse.FilteredGroupBy(
			dataverse.And(dataverse.Eq("statecode", 0)),
			[]string{"ownerid"},
			dataverse.Aggregate("estimatedvalue", dataverse.Max, "best"),
		),
	)
}
