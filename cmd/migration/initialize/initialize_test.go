package initialize

import (
	. "kaudio/internal/models"
	"kaudio/internal/testutil"
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTables_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	log := logger.New("initialize-test")

	require.NoError(t, InitializeTables(db.SQL, log))
	require.NoError(t, InitializeTables(db.SQL, log))

	var plans []SubscriptionPlan
	require.NoError(t, db.SQL.Order("type").Find(&plans).Error)
	require.Len(t, plans, 3)
	assert.Equal(t, PlanFamily, plans[0].Type)
	assert.JSONEq(t, `{"ads":true,"offline":false,"skipsPerHour":6,"members":1}`, string(plans[1].Permissions))
}
