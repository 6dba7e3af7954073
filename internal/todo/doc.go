// Package todo owns the task collection and its on-disk JSON file.
//
// The task file (tasks.json) is a single JSON array in display order:
//
//	[
//	  {
//	    "id": "1f0c2a4e-5b7d-4c1e-9a5f-0b2c3d4e5f60",
//	    "text": "Buy milk",
//	    "completed": false,
//	    "priority": "HIGH",
//	    "due_date": "2024-06-14",
//	    "created_at": "2024-06-10T09:30:00Z",
//	    "completed_at": null
//	  }
//	]
//
// # Priorities
//
//   - "NONE": default
//   - "LOW", "MED", "HIGH"
//
// # Loading
//
// Loading never fails the caller. A missing or unparseable file yields an
// empty collection. Records written by older versions are normalized:
// missing priority becomes NONE, missing or malformed due dates become
// absent, naive ISO-8601 timestamps are read in local time, and the legacy
// "createdAt" key is accepted.
//
// # Saving
//
// Every mutation rewrites the whole file: 2-space indentation, trailing
// newline, written to a temporary file and renamed into place while an
// exclusive lock is held on "<file>.lock". Write failures are logged and
// kept for the caller to inspect (see Store.LastSaveError); they never
// undo the in-memory mutation.
//
// # Validation
//
// Validate checks a task file against the embedded JSON Schema
// (tasks.schema.json) and the rules a schema cannot express: unique ids and
// completed_at being set exactly when completed is true.
package todo
