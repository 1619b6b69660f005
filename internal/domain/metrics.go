package domain

import "time"

// Metrics receives observations from the dispatch and connection
// layers. Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveDispatch(origin ToolOrigin, duration time.Duration, err error)
	ObserveGatewayConnect(duration time.Duration, err error)
	ObserveCatalogRefresh(forced bool, remoteAvailable bool)
	SetCatalogSize(origin ToolOrigin, count int)
}
