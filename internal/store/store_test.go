package store_test

import (
	"testing"

	"hushpost/internal/domain"
	"hushpost/internal/store"
)

func TestDeviceKey_StableAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	var devices domain.DeviceKeyStore = store.NewDeviceFileStore(dir)
	first, err := devices.DeviceKey()
	if err != nil {
		t.Fatalf("device key: %v", err)
	}
	if len(first) != store.DeviceKeyBytes {
		t.Fatalf("want %d byte key, got %d", store.DeviceKeyBytes, len(first))
	}

	// A new store over the same dir must see the same key.
	second, err := store.NewDeviceFileStore(dir).DeviceKey()
	if err != nil {
		t.Fatalf("device key reload: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("device key changed between loads")
	}
}

func TestDeviceKey_DistinctPerDevice(t *testing.T) {
	a, err := store.NewDeviceFileStore(t.TempDir()).DeviceKey()
	if err != nil {
		t.Fatalf("device key: %v", err)
	}
	b, err := store.NewDeviceFileStore(t.TempDir()).DeviceKey()
	if err != nil {
		t.Fatalf("device key: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("two devices derived the same key")
	}
}

func TestSessionToken_SaveLoadDelete(t *testing.T) {
	var tokens domain.SessionTokenStore = store.NewSessionFileStore(t.TempDir())

	if _, ok, err := tokens.LoadToken(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	want := domain.SessionToken(`{"v":1,"cipher":"abc"}`)
	if err := tokens.SaveToken(want); err != nil {
		t.Fatalf("save token: %v", err)
	}

	got, ok, err := tokens.LoadToken()
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if !ok || string(got) != string(want) {
		t.Fatalf("token mismatch after load: ok=%v got=%q", ok, got)
	}

	if err := tokens.DeleteToken(); err != nil {
		t.Fatalf("delete token: %v", err)
	}
	if _, ok, _ := tokens.LoadToken(); ok {
		t.Fatal("token survived delete")
	}
	// Deleting twice is fine.
	if err := tokens.DeleteToken(); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
