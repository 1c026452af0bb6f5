package integration_test

import (
	"context"
	"testing"

	vybiumzkvm "github.com/vybium/vybium-zkvm/pkg/vybium-zkvm"
)

// Test01_ProveAndVerify tests the complete pipeline:
// 1. Build a guest program
// 2. Execute and prove it
// 3. Serialize the receipt, deserialize it
// 4. Verify against the image ID
func Test01_ProveAndVerify(t *testing.T) {
	t.Log("=== Test 01: Prove -> Serialize -> Verify ===")
	ctx := context.Background()

	t.Log("Step 1: Building guest program...")
	program := vybiumzkvm.NewProgram().
		Add(vybiumzkvm.ReadInput, 0).
		Add(vybiumzkvm.ReadInput, 0).
		Add(vybiumzkvm.Mul, 0).
		Add(vybiumzkvm.Commit, 0).
		Add(vybiumzkvm.Halt, 0)

	imageID, err := vybiumzkvm.ImageID(program)
	if err != nil {
		t.Fatalf("Failed to compute image ID: %v", err)
	}
	t.Logf("  Image ID: %s", imageID)

	t.Log("Step 2: Proving...")
	prover, err := vybiumzkvm.NewProverServer(vybiumzkvm.DefaultProverOpts())
	if err != nil {
		t.Fatalf("Failed to create prover: %v", err)
	}
	env := vybiumzkvm.NewExecutorEnv().Write(6, 7)
	info, err := prover.Prove(ctx, env, program)
	if err != nil {
		t.Fatalf("Proving failed: %v", err)
	}
	t.Logf("  ✓ Proved in %d cycles over %d segments",
		info.Stats.TotalCycles, info.Stats.Segments)
	t.Logf("  Receipt kind: %s", info.Receipt.Kind())

	t.Log("Step 3: Serializing receipt...")
	data, err := info.Receipt.MarshalBinary()
	if err != nil {
		t.Fatalf("Failed to serialize receipt: %v", err)
	}
	t.Logf("  Receipt size: %d bytes", len(data))

	back, err := vybiumzkvm.UnmarshalReceipt(data)
	if err != nil {
		t.Fatalf("Failed to deserialize receipt: %v", err)
	}
	if !back.Equal(info.Receipt) {
		t.Fatal("Receipt changed across serialization")
	}

	t.Log("Step 4: Verifying...")
	if err := back.Verify(imageID); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
	if back.Journal.Bytes[0] != 42 {
		t.Fatalf("Journal word = %d, want 42", back.Journal.Bytes[0])
	}
	t.Log("  ✓ Receipt verified and journal checks out")

	t.Log("Step 5: Checking rejection of a wrong image ID...")
	wrong, _ := vybiumzkvm.ImageID(vybiumzkvm.NewProgram().Add(vybiumzkvm.Halt, 0))
	if err := back.Verify(wrong); err == nil {
		t.Fatal("Receipt verified against the wrong image ID")
	}
	t.Log("  ✓ Wrong image ID rejected")
	t.Log("")
	t.Log("🎉 SUCCESS: Prove -> Serialize -> Verify works!")
}
