package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/osmtools/osmquery"
	"github.com/osmtools/osmquery/database"
	"github.com/osmtools/osmquery/filter"
	"github.com/osmtools/osmquery/log"
	"github.com/osmtools/osmquery/osmdata"
)

var flags = flag.NewFlagSet("osmquery", flag.ExitOnError)

var (
	pbfFile      = flags.String("pbf", "", "OSM PBF file to read")
	criteriaFile = flags.String("criteria", "", "criteria YAML file")
	out          = flags.String("out", "-", "GeoJSON output file, - for stdout")
	connection   = flags.String("connection", "", "PostGIS connection parameters, write result to database instead of GeoJSON")
	tableName    = flags.String("table", "osmquery", "destination table name for -connection")
	quiet        = flags.Bool("quiet", false, "only log warnings")
	version      = flags.Bool("version", false, "print version and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -pbf FILE -criteria FILE [args]\n\n", os.Args[0])
	flags.PrintDefaults()
	os.Exit(2)
}

func main() {
	flags.Usage = usage
	flags.Parse(os.Args[1:])

	if *version {
		fmt.Println(osmquery.Version)
		os.Exit(0)
	}
	if *quiet {
		log.SetMinLevel(log.LWarn)
	}
	if *pbfFile == "" || *criteriaFile == "" {
		usage()
	}

	config, err := filter.FromFile(*criteriaFile)
	if err != nil {
		log.Fatalf("[error] %s", err)
	}

	data, err := osmdata.ReadPBF(context.Background(), *pbfFile)
	if err != nil {
		log.Fatalf("[error] %s", err)
	}

	result := osmquery.QueryConfig(data, config)
	log.Printf("[info] %d elements selected", len(result.Rows))
	for reason, n := range result.Dropped {
		log.Printf("[warn] dropped %d elements: %s", n, reason)
	}

	if *connection != "" {
		pg, err := database.Connect(*connection, "")
		if err != nil {
			log.Fatalf("[error] %s", err)
		}
		defer pg.Close()
		if err := pg.Import(*tableName, result); err != nil {
			log.Fatalf("[error] %s", err)
		}
		return
	}

	b, err := result.GeoJSON()
	if err != nil {
		log.Fatalf("[error] %s", err)
	}
	if *out == "-" {
		os.Stdout.Write(b)
		fmt.Println()
		return
	}
	if err := ioutil.WriteFile(*out, b, 0644); err != nil {
		log.Fatalf("[error] %s", err)
	}
}
