package main

import "fmt"
import "flag"
import "sync"
import "time"
import "unsafe"
import "math/rand"

import "github.com/aijle/co/malloc"
import "github.com/cloudfoundry/gosigar"
import "github.com/dustin/go-humanize"

var options struct {
	routines int
	repeat   int
	maxsize  int
	live     int
}

func argParse() {
	flag.IntVar(&options.routines, "routines", 8,
		"number of concurrent allocating routines")
	flag.IntVar(&options.repeat, "repeat", 1000000,
		"number of alloc/free cycles per routine")
	flag.IntVar(&options.maxsize, "maxsize", 8192,
		"maximum allocation size")
	flag.IntVar(&options.live, "live", 1024,
		"live pointers held per routine")
	flag.Parse()
}

func main() {
	argParse()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(options.routines)
	for i := 0; i < options.routines; i++ {
		go churn(i, &wg)
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := int64(options.routines) * int64(options.repeat)
	fmt.Printf("%v alloc/free cycles in %v, %v ns/op\n",
		total, elapsed, elapsed.Nanoseconds()/total)
	tellallocator()
	tellsystem()
}

func churn(seed int, wg *sync.WaitGroup) {
	defer wg.Done()

	rnd := rand.New(rand.NewSource(int64(seed)))
	type chunk struct {
		ptr  unsafe.Pointer
		size int64
	}
	live := make([]chunk, options.live)
	for i := 0; i < options.repeat; i++ {
		j := rnd.Intn(len(live))
		if live[j].ptr != nil {
			malloc.Free(live[j].ptr, live[j].size)
			live[j].ptr = nil
		}
		size := int64(rnd.Intn(options.maxsize)) + 1
		ptr := malloc.Alloc(size)
		if ptr == nil {
			panic(fmt.Errorf("allocation of %v bytes failed", size))
		}
		live[j] = chunk{ptr, size}
	}
	for _, c := range live {
		if c.ptr != nil {
			malloc.Free(c.ptr, c.size)
		}
	}
}

func tellallocator() {
	capacity, heap, alloc, overhead := malloc.Info()
	fmt.Printf("allocator: capacity %10v\n", humanize.IBytes(uint64(capacity)))
	fmt.Printf("           heap     %10v\n", humanize.IBytes(uint64(heap)))
	fmt.Printf("           alloc    %10v\n", humanize.IBytes(uint64(alloc)))
	fmt.Printf("           overhead %10v\n", humanize.IBytes(uint64(overhead)))
}

func tellsystem() {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		fmt.Printf("system memory unavailable: %v\n", err)
		return
	}
	fmt.Printf("system:    total %v, used %v, free %v\n",
		humanize.IBytes(mem.Total), humanize.IBytes(mem.Used),
		humanize.IBytes(mem.Free))
}
