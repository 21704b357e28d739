package main

import (
	"os"
	"runtime/pprof"
)

func pprofStart(f *os.File) error { return pprof.StartCPUProfile(f) }
func pprofStop()                  { pprof.StopCPUProfile() }
func pprofWriteHeap(f *os.File) error { return pprof.WriteHeapProfile(f) }
