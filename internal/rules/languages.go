package rules

// Language tags produced by the project loader.
const (
	LangPython     = "Python"
	LangJavaScript = "JavaScript"
	LangTypeScript = "TypeScript"
	LangJava       = "Java"
	LangC          = "C"
	LangCPP        = "C++"
	LangCSharp     = "C#"
	LangGo         = "Go"
	LangRust       = "Rust"
	LangHTML       = "HTML"
	LangCSS        = "CSS"
	LangSQL        = "SQL"
	LangElixir     = "Elixir"
	LangJSON       = "JSON"
	LangNode       = "Node"
)

var pythonPatterns = []string{
	"os.system",
	"subprocess.Popen",
	"eval",
	"exec",
	"pickle.loads",
	"input",
	"__import__",
	"open",
	"yaml.load",
	"shlex.split",
	"base64.b64decode",
}

var javaScriptPatterns = []string{
	"eval",
	"Function",
	"setTimeout",
	"setInterval",
	"document.write",
	"innerHTML",
	"outerHTML",
	"localStorage",
	"sessionStorage",
	"fetch",
	"XMLHttpRequest",
	"WebSocket",
	"document.addEventListener('keydown'",
	"navigator.sendBeacon",
	"atob",
	"btoa",
}

var javaPatterns = []string{
	"Runtime.getRuntime().exec",
	"ProcessBuilder",
	"ObjectInputStream",
	"eval",
	"ScriptEngine.eval",
	"Class.forName",
	"setAccessible",
	"loadLibrary",
	"System.load",
	"FileOutputStream",
	"FileInputStream",
}

// C patterns are matched as whole words: "exec" must not fire on "execvp".
var cPatterns = []string{
	"system",
	"popen",
	"exec",
	"execl",
	"execvp",
	"fopen",
	"fscanf",
	"gets",
	"scanf",
	"strcpy",
	"strcat",
	"sprintf",
	"printf",
	"fork",
	"dlopen",
}

var cppPatterns = []string{
	"system",
	"popen",
	"fstream",
	"ifstream",
	"ofstream",
	"strcpy",
	"strcat",
	"sprintf",
	"execvp",
	"fork",
	"dlopen",
	"new",
	"delete",
	"reinterpret_cast",
}

var cSharpPatterns = []string{
	"System.Diagnostics.Process",
	"Process.Start",
	"Assembly.Load",
	"Assembly.LoadFrom",
	"File.ReadAllText",
	"File.WriteAllText",
	"WebClient.DownloadString",
	"HttpWebRequest",
	"Eval",
	"ExecuteScalar",
	"ExecuteReader",
}

var goPatterns = []string{
	"exec.Command",
	"os/exec",
	"ioutil.ReadFile",
	"ioutil.WriteFile",
	"net/http",
	"http.Get",
	"http.Post",
	"reflect.Value.Call",
	"unsafe.Pointer",
	"runtime.SetFinalizer",
}

var rustPatterns = []string{
	"std::process::Command",
	"std::fs::read_to_string",
	"std::fs::write",
	"std::mem::transmute",
	"unsafe",
	"extern crate libc",
	"libloading::Library",
	"std::net::TcpStream",
}

var htmlPatterns = []string{
	"<script>",
	"onerror=",
	"onload=",
	"onclick=",
	"iframe src",
	"<embed>",
	"<object>",
	`<meta http-equiv="refresh">`,
}

var cssPatterns = []string{
	`expression\(`,
	`url\(\s*['\"]?javascript:`,
	`behavior:`,
	`-moz-binding`,
}

var sqlPatterns = []string{
	"DROP",
	"DELETE",
	"INSERT",
	"UPDATE",
	"SELECT",
	"--",
	";--",
	"' OR '1'='1",
	`" OR "1"="1"`,
	"xp_cmdshell",
	"UNION SELECT",
	"INFORMATION_SCHEMA",
	"LOAD_FILE",
	"OUTFILE",
}

var elixirPatterns = []string{
	"System.cmd",
	"Code.eval_string",
	"Code.eval_file",
	"File.read!",
	"File.write!",
	"Port.open",
	"eval",
	"apply",
	"spawn",
	"send",
	"IO.puts",
	"IO.gets",
}

var nodePatterns = []string{
	`child_process\.exec`,
	`child_process\.spawn`,
	`require\s*\(\s*['\"]child_process['\"]\s*\)`,
	`require\s*\(\s*['\"]fs['\"]\s*\)`,
	`process\.env`,
	`eval\s*\(`,
	`Buffer\.from\s*\(`,
	`setTimeout\s*\(`,
	`setInterval\s*\(`,
	`new Buffer`,
	`dlopen`,
	`require\s*\(\s*['\"].+\.so['\"]\s*\)`,
}

// SuspiciousCommands are the shell fragments looked for in JSON documents.
var SuspiciousCommands = []string{
	"rm ",
	"curl ",
	"wget ",
	"bash ",
	"powershell ",
	"npm install -g",
	"chown ",
	"chmod ",
	"docker ",
}

// RegisterBuiltins registers the rule set of every supported language.
func RegisterBuiltins(r *Registry) {
	js := Substrings(javaScriptPatterns...)

	r.Register(LangPython, Substrings(pythonPatterns...))
	r.Register(LangJavaScript, js)
	r.Register(LangTypeScript, js)
	r.Register(LangJava, Substrings(javaPatterns...))
	r.Register(LangC, WordBoundary(cPatterns...))
	r.Register(LangCPP, Substrings(cppPatterns...))
	r.Register(LangCSharp, Substrings(cSharpPatterns...))
	r.Register(LangGo, Substrings(goPatterns...))
	r.Register(LangRust, Substrings(rustPatterns...))
	r.Register(LangHTML, Substrings(htmlPatterns...))
	r.Register(LangCSS, RegexpsFold(cssPatterns...))
	r.Register(LangSQL, Substrings(sqlPatterns...))
	r.Register(LangElixir, Substrings(elixirPatterns...))
	r.Register(LangJSON, NewJSONRules(SuspiciousCommands...))
	r.Register(LangNode, Regexps(nodePatterns...))
}

// PatternCount reports how many patterns a rule set carries, for listings.
func PatternCount(rs RuleSet) int {
	switch v := rs.(type) {
	case *LineRules:
		return len(v.patterns)
	case *JSONRules:
		return len(v.Patterns)
	default:
		return 0
	}
}
