// Package documents is the on-device record store for vault documents.
//
// The SQLite implementation takes a dbx.Connector rather than an open
// database, so the first repository call is what opens and migrates the
// local store:
//
//	repo := documents.NewSQLiteRepository(store)
//	_ = repo.Insert(ctx, rec)
//	pending, _ := repo.ListUnsynced(ctx)
//	_ = repo.SetSynced(ctx, rec.ID)
package documents
