//go:build integration

package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres"
	locationrepo "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/location"
	pricerepo "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/pricehistory"
	productrepo "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/product"
	stationrepo "github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/station"
	"github.com/viniciusmartins/fuelmap-backend/internal/adapter/postgres/testhelper"
)

func setupIntegrationPipeline(t *testing.T) (*Pipeline, *stationrepo.Repo, func()) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	txm := postgres.NewTxManager(pool)
	stations := stationrepo.New(pool)

	p := NewPipeline(testLogger(),
		locationrepo.New(pool), productrepo.New(pool), stations, pricerepo.New(pool),
		txm, Config{BatchSize: 100})

	// Delete in reverse FK order for test isolation.
	clean := func() {
		ctx := context.Background()
		for _, table := range []string{"historico_precos", "posto_gasolina", "produto", "localizacao"} {
			_, err := pool.Exec(ctx, "DELETE FROM "+table)
			require.NoError(t, err)
		}
	}
	clean()
	return p, stations, clean
}

func TestIntegration_FullRunAndRerun(t *testing.T) {
	p, stations, clean := setupIntegrationPipeline(t)
	defer clean()
	ctx := context.Background()

	path := writeCSV(t,
		dataLine(cnpjA, "POSTO ALFA LTDA", "SAO PAULO", "SP", "GASOLINA COMUM", "5,59", "01/15/2024"),
		dataLine(cnpjA, "POSTO ALFA LTDA", "SAO PAULO", "SP", "ETANOL", "3,89", "01/15/2024"),
		dataLine(cnpjB, "POSTO GAMA LTDA", "CAMPINAS", "SP", "GASOLINA COMUM", "5,49", "01/15/2024"),
	)

	result, err := p.Run(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.ProcessedRows)
	assert.Equal(t, 2, result.GasStations.Created)
	assert.Equal(t, 2, result.Products.Created)
	assert.Equal(t, 2, result.Localizations.Created)
	assert.Equal(t, 3, result.PriceHistories.Created)
	assert.Empty(t, result.Errors)

	// The second run over the same file must create nothing.
	rerun, err := p.Run(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, 0, rerun.GasStations.Created)
	assert.Equal(t, 0, rerun.Products.Created)
	assert.Equal(t, 0, rerun.Localizations.Created)
	assert.Equal(t, 0, rerun.PriceHistories.Created)
	assert.Equal(t, 3, rerun.DuplicatedRows)

	// Search sees the committed data through the read path.
	uf := "SP"
	found, err := stations.Search(ctx, stationrepo.Filter{UF: &uf})
	require.NoError(t, err)
	assert.Equal(t, 2, found.Total)

	produto := "ETANOL"
	found, err = stations.Search(ctx, stationrepo.Filter{Produto: &produto})
	require.NoError(t, err)
	require.Equal(t, 1, found.Total)
	assert.Equal(t, "POSTO ALFA LTDA", found.Rows[0].Station.Nome)
}

func TestIntegration_StatisticsAggregates(t *testing.T) {
	p, stations, clean := setupIntegrationPipeline(t)
	defer clean()
	ctx := context.Background()

	path := writeCSV(t,
		dataLine(cnpjA, "POSTO ALFA LTDA", "SAO PAULO", "SP", "GASOLINA COMUM", "5,00", "01/15/2024"),
		dataLine(cnpjB, "POSTO GAMA LTDA", "CAMPINAS", "SP", "GASOLINA COMUM", "6,00", "01/16/2024"),
	)

	_, err := p.Run(ctx, path)
	require.NoError(t, err)

	stats, err := stations.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalStations)
	require.Len(t, stats.ByState, 1)
	assert.Equal(t, "SP", stats.ByState[0].UF)
	assert.Equal(t, 2, stats.ByState[0].Total)

	require.Len(t, stats.ByProduct, 1)
	assert.Equal(t, "GASOLINA COMUM", stats.ByProduct[0].Produto)
	assert.Equal(t, 2, stats.ByProduct[0].Total)
	assert.Equal(t, "5.500", stats.ByProduct[0].PrecoMedio.StringFixed(3))
	assert.Equal(t, "5.000", stats.ByProduct[0].PrecoMin.StringFixed(3))
	assert.Equal(t, "6.000", stats.ByProduct[0].PrecoMax.StringFixed(3))

	require.NotNil(t, stats.LastUpdate)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), stats.LastUpdate.UTC())
}

func TestIntegration_RollbackLeavesNoRows(t *testing.T) {
	p, stations, clean := setupIntegrationPipeline(t)
	defer clean()

	path := writeCSV(t,
		dataLine(cnpjA, "POSTO ALFA LTDA", "SAO PAULO", "SP", "GASOLINA COMUM", "5,59", "01/15/2024"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, path)
	require.Error(t, err)

	found, err := stations.Search(context.Background(), stationrepo.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, found.Total)
}
