package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Format 输出格式
type Format string

const (
	// FormatJSON 单行 JSON，便于脚本处理
	FormatJSON Format = "json"
	// FormatPretty 终端表格
	FormatPretty Format = "pretty"
)

// ParseFormat 解析输出格式
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatPretty:
		return FormatPretty, nil
	default:
		return "", fmt.Errorf("未知输出格式: %s", s)
	}
}

// Printer 命令输出
//
// 结果写到 stdout，提示信息写到 stderr，避免污染 JSON。
type Printer struct {
	format Format
	writer io.Writer
}

// NewPrinter 创建输出器，stdout 不是终端时关闭 pterm 样式
func NewPrinter(format Format, writer io.Writer) *Printer {
	if f, ok := writer.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		pterm.DisableStyling()
	}
	pterm.SetDefaultOutput(os.Stderr)
	return &Printer{format: format, writer: writer}
}

// Record 打印一条键值记录
func (p *Printer) Record(title string, fields [][2]string) error {
	if p.format == FormatJSON {
		obj := make(map[string]string, len(fields))
		for _, kv := range fields {
			obj[kv[0]] = kv[1]
		}
		return json.NewEncoder(p.writer).Encode(obj)
	}

	data := pterm.TableData{}
	for _, kv := range fields {
		data = append(data, []string{kv[0], kv[1]})
	}
	pterm.DefaultSection.Println(title)
	return p.render(pterm.DefaultTable.WithHasHeader(false).WithData(data))
}

// Rows 打印表格
func (p *Printer) Rows(header []string, rows [][]string) error {
	if p.format == FormatJSON {
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			obj := make(map[string]string, len(header))
			for i, h := range header {
				if i < len(row) {
					obj[h] = row[i]
				}
			}
			out = append(out, obj)
		}
		return json.NewEncoder(p.writer).Encode(out)
	}

	data := pterm.TableData{header}
	data = append(data, rows...)
	return p.render(pterm.DefaultTable.WithHasHeader(true).WithData(data))
}

func (p *Printer) render(table *pterm.TablePrinter) error {
	s, err := table.Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.writer, s)
	return err
}

// Verdict 打印验证结论
func (p *Printer) Verdict(verified bool) {
	if verified {
		pterm.Success.Println("证明验证通过")
	} else {
		pterm.Warning.Println("证明未通过验证")
	}
}

// Info 提示信息
func (p *Printer) Info(msg string) {
	pterm.Info.Println(msg)
}

// Warn 警告信息
func (p *Printer) Warn(msg string) {
	pterm.Warning.Println(msg)
}

// PrintMetrics 打印 registry 中的计数器、仪表和直方图
func (p *Printer) PrintMetrics(registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}

	var rows [][]string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			sort.Strings(labels)

			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprintf("%g", m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				value = fmt.Sprintf("%g", m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("count=%d sum=%.3fs", h.GetSampleCount(), h.GetSampleSum())
			default:
				continue
			}
			rows = append(rows, []string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	return p.Rows([]string{"metric", "labels", "value"}, rows)
}
