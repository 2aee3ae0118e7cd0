package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"molgraph/application/commands"
	"molgraph/application/queries"
	"molgraph/infrastructure/config"
	"molgraph/infrastructure/di"
)

// load-molecule parses a SMILES descriptor, uploads its node and edge
// records to the configured graph store, and prints the run record.
//
// Usage:
//
//	load-molecule -descriptor 'CN1C=NC2=C1C(=O)N(C(=O)N2C)C'
//	load-molecule -delete -descriptor 'CCO'
func main() {
	descriptor := flag.String("descriptor", "", "SMILES descriptor to load")
	deleteFlag := flag.Bool("delete", false, "delete the molecule's records instead of loading")
	timeout := flag.Duration("timeout", 60*time.Second, "operation timeout")
	flag.Parse()

	if *descriptor == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close(context.Background())

	if *deleteFlag {
		cmd := commands.DeleteMoleculeCommand{Descriptor: *descriptor, UserID: "cli"}
		if err := container.CommandBus.Send(ctx, cmd); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Println("deleted")
		return
	}

	cmd := commands.LoadMoleculeCommand{
		RunID:      uuid.New().String(),
		Descriptor: *descriptor,
		UserID:     "cli",
	}
	if err := container.CommandBus.Send(ctx, cmd); err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	result, err := container.QueryBus.Ask(ctx, queries.GetRunQuery{RunID: cmd.RunID})
	if err != nil {
		log.Fatalf("Load succeeded but run lookup failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render run: %v", err)
	}
	fmt.Println(string(out))
}
