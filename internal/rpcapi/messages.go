package rpcapi

// ReadRequest is ClientService.ReadFromFile's request: the client names a
// file and wants its full current content (spec.md §4.4.1).
type ReadRequest struct {
	FileName string `json:"file_name"`
}

// ReadResponse carries the file content a read settled on.
type ReadResponse struct {
	Content string `json:"content"`
}

// WriteRequest is ClientService.WriteToFile's request: append update to
// FileName.
type WriteRequest struct {
	FileName string `json:"file_name"`
	Update   string `json:"update"`
}

// WriteResponse carries the content of the file after the append landed
// on a write quorum.
type WriteResponse struct {
	Content string `json:"content"`
}

// ForwardedReadRequest is PeerService.ForwardedReadFromFile's request: a
// non-coordinator node relaying a client read to the coordinator.
type ForwardedReadRequest struct {
	FileName string `json:"file_name"`
}

// ForwardedReadResponse mirrors ReadResponse across the peer boundary.
type ForwardedReadResponse struct {
	Content string `json:"content"`
}

// ForwardedWriteRequest is PeerService.ForwardedWriteToFile's request: a
// non-coordinator node relaying a client write to the coordinator.
type ForwardedWriteRequest struct {
	FileName string `json:"file_name"`
	Update   string `json:"update"`
}

// ForwardedWriteResponse mirrors WriteResponse across the peer boundary.
type ForwardedWriteResponse struct {
	Content string `json:"content"`
}

// VersionRequest is PeerService.GetFileVersion's request: the coordinator
// probing one quorum member's locally recorded version for FileName.
type VersionRequest struct {
	FileName string `json:"file_name"`
}

// VersionResponse carries the version a quorum member has recorded for a
// file, or version.Unknown if it does not track the file at all.
type VersionResponse struct {
	Version int64 `json:"version"`
}

// RawReadRequest is PeerService.ReadFileFromNode's request: the
// coordinator fetching the on-disk content a specific quorum member has
// for FileName, once that member's version has won the freshness probe.
type RawReadRequest struct {
	FileName string `json:"file_name"`
}

// RawReadResponse carries a single node's raw on-disk content.
type RawReadResponse struct {
	Content string `json:"content"`
}

// AppendRequest is PeerService.AppendToSpecificFile's request: the
// coordinator propagating an append to a quorum member at NewVersion.
type AppendRequest struct {
	FileName   string `json:"file_name"`
	Update     string `json:"update"`
	NewVersion int64  `json:"new_version"`
}

// AppendResponse carries the member's full content after the append.
type AppendResponse struct {
	Content string `json:"content"`
}

// OverwriteRequest is PeerService.UpdateFileToText's request: the
// coordinator propagating a full-content overwrite to a quorum member,
// used after the append has landed on the freshest member to bring every
// other quorum member to the post-append content and version
// (spec.md §4.4.3).
type OverwriteRequest struct {
	FileName    string `json:"file_name"`
	FullContent string `json:"full_content"`
	NewVersion  int64  `json:"new_version"`
}

// OverwriteResponse carries the member's content back after the
// overwrite, unchanged from what was sent.
type OverwriteResponse struct {
	Content string `json:"content"`
}
