package retrieval

import "context"

// FallbackBackend tries an external backend first and falls back to a
// local one whenever the project has no usable external index, the
// external backend errors, or it comes back empty.
type FallbackBackend struct {
	Primary  External
	Fallback Backend
}

func (b FallbackBackend) Search(ctx context.Context, q Query) (*Result, error) {
	ready, err := b.Primary.Ready(ctx, q.ProjectID, externalIndexID(ctx, b.Primary, q))
	if err != nil || !ready {
		res, ferr := b.Fallback.Search(ctx, q)
		if ferr != nil {
			return nil, ferr
		}
		res.Debug.FallbackReason = "index_not_ready"
		return res, nil
	}

	res, err := b.Primary.Search(ctx, q)
	if err != nil {
		fres, ferr := b.Fallback.Search(ctx, q)
		if ferr != nil {
			return nil, ferr
		}
		fres.Debug.FallbackReason = "external_search_failed"
		return fres, nil
	}
	if len(res.Candidates) == 0 {
		fres, ferr := b.Fallback.Search(ctx, q)
		if ferr != nil {
			return nil, ferr
		}
		fres.Debug.FallbackReason = "external_empty"
		return fres, nil
	}
	return res, nil
}

// externalIndexID reads the project's external index id without
// forcing every caller to thread it through Query.
func externalIndexID(ctx context.Context, primary External, q Query) string {
	project, err := primary.Store.GetProject(ctx, q.ProjectID)
	if err != nil || project.ExternalIndexID == nil {
		return ""
	}
	return *project.ExternalIndexID
}
