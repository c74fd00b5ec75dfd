package handler

const (
	// APIPrefix is the mount point of every resource handler.
	APIPrefix = "/api/v1"

	// IDParam is the route parameter holding a resource id.
	IDParam = "id"

	// ItemPath is the path of a single resource below its collection.
	ItemPath = "/:" + IDParam + "<int>"

	// ErrNilACDFatalLogMsg is used if router or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "router, cfg or db is nil"
)
