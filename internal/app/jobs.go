package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// RecordMetricName is the gauge holding the record count of a collection
func RecordMetricName(coll domain.Collection) string {
	return "owfarm_records_" + string(coll)
}

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 1m", a.SchedRecordCountTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // percentage * 100
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("owfarm_cpuuse", int64(cpuuse*100)) // percentage * 100
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("owfarm_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedRecordCountTask samples the size of every collection
func (a *Application) SchedRecordCountTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, coll := range domain.Collections {
		if coll == domain.Settings {
			continue
		}
		n, err := a.store.Count(ctx, coll)
		if err != nil {
			zap.L().Warn("record count failed",
				zap.String("namespace", "job"),
				zap.String("collection", string(coll)),
				zap.Error(err))
			continue
		}
		metrics.SetGauge(RecordMetricName(coll), n)
	}
}
