package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontrules/fontinfo"
	"github.com/npillmayer/fontrules/rules"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontrules.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontrules.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.fontrules.cli":      "Info",
		"trace.fontrules.rules":    "Info",
		"trace.fontrules.fontinfo": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	rulesfile := flag.String("rules", "", "Rules document to compile on startup")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the font rules compiler")
	//
	// set up REPL
	repl, err := readline.New("rules > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	if *rulesfile != "" {
		if err, _ := compileOp(intp, &Op{code: COMPILE, arg: *rulesfile}); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(6)
		}
	}
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font fontinfo.Model
	sess *rules.Session
	repl *readline.Instance
}

func (intp *Intp) String() string {
	if intp == nil || intp.sess == nil {
		return "()"
	}
	ff := intp.sess.Features
	return fmt.Sprintf("( routines=%d classes=%d features=%d )",
		len(ff.Routines), len(ff.ClassNames()), len(ff.FeatureTags()))
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code int
	arg  string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	LOAD
	COMPILE
	RESET
	CLASSES
	CLASS
	FEATURES
	ROUTINES
	XMLPRINT
	WARNINGS
)

var opMap = map[string]int{
	"quit":     QUIT,
	"help":     HELP,
	"load":     LOAD,
	"compile":  COMPILE,
	"reset":    RESET,
	"classes":  CLASSES,
	"class":    CLASS,
	"features": FEATURES,
	"routines": ROUTINES,
	"xml":      XMLPRINT,
	"warnings": WARNINGS,
}

var opNames = []string{
	"quit",
	"help",
	"load",
	"compile",
	"reset",
	"classes",
	"class",
	"features",
	"routines",
	"xml",
	"warnings",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
	}
}

func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Split(line, " ")
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":") // e.g.  "class:lower" or "compile:latin.rules"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		command.op[i].arg = ""
		if command.op[i].code == QUIT {
			return &command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		if command.op[i].arg == "" {
			tracer().Infof("%s", opNames[command.op[i].code])
		} else {
			tracer().Infof("%s: looking for '%s'", opNames[command.op[i].code], command.op[i].arg)
		}
	}
	return &command, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	HELP:     helpOp,
	LOAD:     loadOp,
	COMPILE:  compileOp,
	RESET:    resetOp,
	CLASSES:  classesOp,
	CLASS:    classOp,
	FEATURES: featuresOp,
	ROUTINES: routinesOp,
	XMLPRINT: xmlOp,
	WARNINGS: warningsOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op)
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

func loadOp(intp *Intp, op *Op) (error, bool) {
	if arg, ok := op.hasArg(); ok {
		return intp.loadFont(arg), false
	}
	pterm.Error.Println("load needs a font file argument")
	return nil, false
}

func compileOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.hasArg()
	if !ok {
		pterm.Error.Println("compile needs a rules file argument")
		return nil, false
	}
	ff, err := intp.sess.CompileFile(arg)
	if err != nil {
		return err, false
	}
	pterm.Printf("compiled %s: %d routine(s), %d class(es), %d warning(s)\n",
		arg, len(ff.Routines), len(ff.ClassNames()), len(intp.sess.Warnings()))
	return nil, false
}

func resetOp(intp *Intp, op *Op) (error, bool) {
	err := intp.newSession()
	if err == nil {
		pterm.Println("session reset")
	}
	return err, false
}

// --- Font Loading -----------------------------------------------------

// loadFont loads a font snapshot and starts a fresh session for it. An
// empty font name starts with an empty in-memory font.
func (intp *Intp) loadFont(fontname string) error {
	if fontname == "" {
		intp.font = fontinfo.NewMemory()
		pterm.Info.Println("no font given, starting with an empty font")
		return intp.newSession()
	}
	font, err := fontinfo.LoadFont(fontname)
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	tracer().Infof("loaded font %s with %d glyphs", font.Fontname, len(font.GlyphOrder()))
	intp.font = font
	return intp.newSession()
}

func (intp *Intp) newSession() (err error) {
	intp.sess, err = rules.NewSession(intp.font)
	return
}

// ----------------------------------------------------------------------

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
