package userdb

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExistsReflectsSeededRows(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "users.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.conn.Create(&entry{Username: "alice"}).Error; err != nil {
		t.Fatal(err)
	}

	ok, err := db.Exists(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected alice to exist")
	}

	ok, err = db.Exists(context.Background(), "bob")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected bob to not exist")
	}
}
