package resume

import (
	"context"

	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/curriculo/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type tableKey struct {
	tableID string
	rng     string
}

func (k tableKey) String() string {
	return k.tableID + "\x00" + k.rng
}

// Fetch returns the cells of rng in the spreadsheet tableID. Successful
// results are cached for the lifetime of the UseCase with no expiry;
// concurrent first calls for the same key share a single request. The shared
// request is detached from the cancellation of whichever caller started it,
// and each caller stops waiting when its own ctx is done. Failures are not
// cached and carry model.ErrTagFetch. The returned table is a copy.
func (u *UseCase) Fetch(ctx context.Context, tableID, rng string) (model.RawTable, error) {
	if tableID == "" {
		return nil, goerr.New("table id is required", goerr.T(model.ErrTagFetch))
	}
	if err := ValidateRange(rng); err != nil {
		return nil, err
	}

	key := tableKey{tableID: tableID, rng: rng}

	if table, ok := u.cachedTable(key); ok {
		logging.From(ctx).Debug("table cache hit", "table_id", tableID, "range", rng)
		return table.Clone(), nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := u.fetchGroup.DoChan(key.String(), func() (any, error) {
		if cached, ok := u.cachedTable(key); ok {
			return cached, nil
		}

		logging.From(fetchCtx).Debug("table cache miss", "table_id", tableID, "range", rng)
		fetched, err := u.sheets.GetValues(fetchCtx, tableID, rng)
		if err != nil {
			return nil, err
		}

		u.tablesMu.Lock()
		u.tables[key] = fetched
		u.tablesMu.Unlock()
		return fetched, nil
	})

	select {
	case <-ctx.Done():
		return nil, goerr.Wrap(ctx.Err(), "fetch cancelled",
			goerr.V("table_id", tableID),
			goerr.V("range", rng),
			goerr.T(model.ErrTagFetch))

	case res := <-ch:
		if res.Err != nil {
			return nil, goerr.Wrap(res.Err, "failed to fetch table",
				goerr.V("table_id", tableID),
				goerr.V("range", rng),
				goerr.T(model.ErrTagFetch))
		}
		return res.Val.(model.RawTable).Clone(), nil
	}
}

func (u *UseCase) cachedTable(key tableKey) (model.RawTable, bool) {
	u.tablesMu.RLock()
	defer u.tablesMu.RUnlock()
	table, ok := u.tables[key]
	return table, ok
}
