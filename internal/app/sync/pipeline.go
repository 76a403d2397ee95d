package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/viniciusmartins/fuelmap-backend/internal/domain"
)

// State names the pipeline's position in a run. Transitions are strictly
// sequential and forward-only; RolledBack is reachable from any state after
// Reading when the storage substrate itself fails.
type State string

const (
	StateIdle               State = "idle"
	StateReading            State = "reading"
	StateValidating         State = "validating"
	StateResolvingLocations State = "resolving_locations"
	StateResolvingProducts  State = "resolving_products"
	StateResolvingStations  State = "resolving_stations"
	StateResolvingPrices    State = "resolving_prices"
	StateCommitted          State = "committed"
	StateRolledBack         State = "rolled_back"
)

// Pipeline orchestrates one ingestion run: read, validate, dedup, resolve
// entities in dependency order, suppress stored price duplicates, commit.
// A Pipeline is not safe for concurrent runs; callers serialize Run.
type Pipeline struct {
	log       *slog.Logger
	locations LocationRepo
	products  ProductRepo
	stations  StationRepo
	prices    PriceRepo
	tx        TxRunner
	cfg       Config
	state     State
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, locations LocationRepo, products ProductRepo,
	stations StationRepo, prices PriceRepo, tx TxRunner, cfg Config) *Pipeline {
	return &Pipeline{
		log:       log,
		locations: locations,
		products:  products,
		stations:  stations,
		prices:    prices,
		tx:        tx,
		cfg:       cfg,
		state:     StateIdle,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// Run ingests one CSV report. Per-row and per-candidate failures are
// aggregated into the Result; only errors from the storage substrate itself
// escape, after rolling back the whole run. One transaction spans all
// writes, so nothing becomes visible until every phase succeeds.
func (p *Pipeline) Run(ctx context.Context, csvPath string) (*Result, error) {
	p.state = StateReading
	rows, err := ReadFile(csvPath)
	if err != nil {
		p.state = StateRolledBack
		return nil, err
	}

	result := &Result{TotalRows: len(rows), Errors: []string{}}
	p.log.Info("starting ingestion", slog.String("file", csvPath), slog.Int("rows", len(rows)))

	p.state = StateValidating
	validRows := p.validateRows(rows, result)
	if len(validRows) == 0 {
		p.log.Warn("no valid rows to process", slog.String("file", csvPath))
		p.state = StateCommitted
		return result, nil
	}

	if p.cfg.DryRun {
		p.dryRun(validRows, result)
		p.state = StateCommitted
		return result, nil
	}

	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		p.state = StateResolvingLocations
		locationMap := p.resolveLocations(ctx, validRows, result)

		p.state = StateResolvingProducts
		productMap := p.resolveProducts(ctx, validRows, result)

		p.state = StateResolvingStations
		stationMap := p.resolveStations(ctx, validRows, result, locationMap)

		p.state = StateResolvingPrices
		return p.resolvePrices(ctx, validRows, result, stationMap, productMap)
	})
	if err != nil {
		p.state = StateRolledBack
		return nil, fmt.Errorf("ingestion of %s rolled back: %w", csvPath, err)
	}

	p.state = StateCommitted
	result.ProcessedRows = len(validRows)
	p.log.Info("ingestion committed",
		slog.Int("processed", result.ProcessedRows),
		slog.Int("skipped", result.SkippedRows),
		slog.Int("duplicated", result.DuplicatedRows),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// validateRows filters out rows with validation errors, recording each
// against the run.
func (p *Pipeline) validateRows(rows []Row, result *Result) []Row {
	var valid []Row
	for i, row := range rows {
		errs := ValidateRow(row)
		if len(errs) > 0 {
			result.SkippedRows++
			result.Errors = append(result.Errors,
				fmt.Sprintf("Linha %d: %s", i+1, joinErrors(errs)))
			continue
		}
		valid = append(valid, row)
	}
	p.log.Info("rows validated", slog.Int("valid", len(valid)), slog.Int("total", len(rows)))
	return valid
}

// dryRun computes dedup statistics without touching storage.
func (p *Pipeline) dryRun(rows []Row, result *Result) {
	locations := make(map[string]struct{})
	products := make(map[string]struct{})
	stations := make(map[string]struct{})
	prices := make(map[string]struct{})
	for _, row := range rows {
		locations[NewLocation(row).LocationKey()] = struct{}{}
		products[NewProduct(row).Nome] = struct{}{}
		stations[NewStation(row).UpsertKey()] = struct{}{}
		record := NewPriceRecord(row, uuid.Nil, uuid.Nil)
		prices[NewStation(row).UpsertKey()+"|"+NewProduct(row).Nome+"|"+record.DataColeta.Format("2006-01-02")] = struct{}{}
	}
	result.Localizations.Skipped = len(locations)
	result.Products.Skipped = len(products)
	result.GasStations.Skipped = len(stations)
	result.PriceHistories.Skipped = len(prices)
	result.ProcessedRows = len(rows)
	p.log.Info("dry run: no writes performed",
		slog.Int("unique_locations", len(locations)),
		slog.Int("unique_products", len(products)),
		slog.Int("unique_stations", len(stations)),
		slog.Int("unique_prices", len(prices)),
	)
}

// resolveLocations deduplicates location candidates by natural key and
// upserts each. A failed candidate's key is absent from the returned map;
// rows depending on it drop out of later phases.
func (p *Pipeline) resolveLocations(ctx context.Context, rows []Row, result *Result) map[string]*domain.Location {
	unique := make(map[string]*domain.Location)
	var order []string
	for _, row := range rows {
		candidate := NewLocation(row)
		key := candidate.LocationKey()
		if _, ok := unique[key]; !ok {
			unique[key] = candidate
			order = append(order, key)
		}
	}
	p.log.Info("resolving locations", slog.Int("unique", len(unique)))

	resolved := make(map[string]*domain.Location, len(unique))
	for _, key := range order {
		candidate := unique[key]
		if !candidate.Valid() {
			result.Localizations.Skipped++
			result.Errors = append(result.Errors,
				fmt.Sprintf("Erro na localização %s: estado ou município inválido", key))
			continue
		}
		saved, created, err := p.locations.Upsert(ctx, candidate)
		if err != nil {
			p.log.Error("location upsert failed", slog.String("key", key), slog.String("error", err.Error()))
			result.Errors = append(result.Errors, fmt.Sprintf("Erro na localização %s: %v", key, err))
			continue
		}
		resolved[key] = saved
		if created {
			result.Localizations.Created++
		} else {
			result.Localizations.Skipped++
		}
	}
	return resolved
}

// resolveProducts deduplicates product candidates by canonical name and
// upserts each. Products are immutable; reuse counts as skipped.
func (p *Pipeline) resolveProducts(ctx context.Context, rows []Row, result *Result) map[string]*domain.Product {
	unique := make(map[string]*domain.Product)
	var order []string
	for _, row := range rows {
		candidate := NewProduct(row)
		if _, ok := unique[candidate.Nome]; !ok {
			unique[candidate.Nome] = candidate
			order = append(order, candidate.Nome)
		}
	}
	p.log.Info("resolving products", slog.Int("unique", len(unique)))

	resolved := make(map[string]*domain.Product, len(unique))
	for _, key := range order {
		saved, created, err := p.products.Upsert(ctx, unique[key])
		if err != nil {
			p.log.Error("product upsert failed", slog.String("key", key), slog.String("error", err.Error()))
			result.Errors = append(result.Errors, fmt.Sprintf("Erro no produto %s: %v", key, err))
			continue
		}
		resolved[key] = saved
		if created {
			result.Products.Created++
		} else {
			result.Products.Skipped++
		}
	}
	return resolved
}

// resolveStations builds station candidates with resolved location ids,
// deduplicates by normalized CNPJ, and upserts each. A station whose
// location failed to resolve is dropped here.
func (p *Pipeline) resolveStations(ctx context.Context, rows []Row, result *Result,
	locationMap map[string]*domain.Location) map[string]*domain.GasStation {
	unique := make(map[string]*domain.GasStation)
	var order []string
	for _, row := range rows {
		location, ok := locationMap[NewLocation(row).LocationKey()]
		if !ok {
			continue
		}
		candidate := NewStation(row)
		candidate.LocalizacaoID = location.ID
		key := candidate.UpsertKey()
		if _, ok := unique[key]; !ok {
			unique[key] = candidate
			order = append(order, key)
		}
	}
	p.log.Info("resolving stations", slog.Int("unique", len(unique)))

	resolved := make(map[string]*domain.GasStation, len(unique))
	for _, key := range order {
		saved, created, err := p.stations.Upsert(ctx, unique[key])
		if err != nil {
			p.log.Error("station upsert failed", slog.String("key", key), slog.String("error", err.Error()))
			result.Errors = append(result.Errors, fmt.Sprintf("Erro no posto %s: %v", key, err))
			continue
		}
		resolved[key] = saved
		if created {
			result.GasStations.Created++
		} else {
			result.GasStations.Updated++
		}
	}
	return resolved
}

// resolvePrices builds one price candidate per row whose station and product
// both resolved, suppresses keys already stored via one batched existence
// query, and inserts the remainder in fixed-size batches. A failed duplicate
// check is fatal: without it the pipeline cannot safely decide which rows
// are new.
func (p *Pipeline) resolvePrices(ctx context.Context, rows []Row, result *Result,
	stationMap map[string]*domain.GasStation, productMap map[string]*domain.Product) error {
	unique := make(map[string]*domain.PriceRecord)
	var candidates []*domain.PriceRecord
	for _, row := range rows {
		station, okStation := stationMap[NewStation(row).UpsertKey()]
		product, okProduct := productMap[NewProduct(row).Nome]
		if !okStation || !okProduct {
			result.SkippedRows++
			continue
		}
		record := NewPriceRecord(row, station.ID, product.ID)
		key := record.UpsertKey()
		if _, ok := unique[key]; ok {
			result.DuplicatedRows++
			continue
		}
		unique[key] = record
		candidates = append(candidates, record)
	}
	p.log.Info("resolving prices", slog.Int("candidates", len(candidates)))

	existing, err := p.prices.ExistingKeys(ctx, candidates)
	if err != nil {
		return fmt.Errorf("check duplicate prices: %w", err)
	}
	result.DuplicatedRows += len(existing)

	var fresh []*domain.PriceRecord
	for _, record := range candidates {
		if _, dup := existing[record.UpsertKey()]; dup {
			result.PriceHistories.Skipped++
			continue
		}
		fresh = append(fresh, record)
	}
	p.log.Info("price duplicates suppressed",
		slog.Int("new", len(fresh)), slog.Int("existing", len(existing)))

	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	for i := 0; i < len(fresh); i += batchSize {
		end := min(i+batchSize, len(fresh))
		inserted, err := p.prices.BulkInsert(ctx, fresh[i:end])
		if err != nil {
			return fmt.Errorf("insert price batch: %w", err)
		}
		result.PriceHistories.Created += inserted
	}

	return nil
}

func joinErrors(errs []string) string {
	out := errs[0]
	for _, e := range errs[1:] {
		out += ", " + e
	}
	return out
}
