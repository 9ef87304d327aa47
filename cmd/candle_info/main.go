// Command candle_info prints the candlestick bucket containing an instant,
// rendered in one or more timezones.
//
// Usage:
//
//	candle_info -ts 1633036800000 -interval 1h -tz UTC,Europe/Madrid
//
// With no -ts the current time is used.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"klinetime"
)

func main() {
	tsFlag := flag.Int64("ts", 0, "epoch milliseconds (default: now)")
	intervalFlag := flag.String("interval", "1h", "kline interval")
	tzFlag := flag.String("tz", "UTC", "comma separated timezone names")
	flag.Parse()

	ms := *tsFlag
	if ms == 0 {
		ms = time.Now().UnixMilli()
	}

	interval, err := klinetime.ParseInterval(*intervalFlag)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	k, err := klinetime.New(ms, interval)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	fmt.Printf("instant: %d\n", k.UnixMilli())
	fmt.Printf("bucket:  [%d, %d)  width %s\n", k.OpenMillis(), k.CloseMillis(), interval.Duration())
	fmt.Printf("prev open: %d   next open: %d\n", k.Prev().OpenMillis(), k.Next().OpenMillis())

	for _, name := range strings.Split(*tzFlag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		localized, err := k.WithTimezone(klinetime.TZ(name))
		if err != nil {
			log.Fatalf("FATAL: %v", err)
		}
		fmt.Printf("%-20s open %s  close %s\n", name,
			localized.Time().Format(time.RFC3339),
			localized.Next().Time().Format(time.RFC3339))
	}
}
