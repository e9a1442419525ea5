package render

// Standard C and common POSIX function names. Inline code spans naming one
// of these render as a bold man reference, e.g. printf(3).
var libcFunctions = makeSet(
	// <stdio.h>
	"printf", "fprintf", "sprintf", "snprintf", "vprintf", "vfprintf",
	"vsnprintf", "scanf", "fscanf", "sscanf", "fopen", "freopen", "fclose",
	"fflush", "fread", "fwrite", "fseek", "ftell", "rewind", "fgetc",
	"fgets", "fputc", "fputs", "getc", "getchar", "putc", "putchar", "puts",
	"ungetc", "perror", "remove", "rename", "tmpfile", "setvbuf", "setbuf",
	"feof", "ferror", "clearerr",
	// <stdlib.h>
	"malloc", "calloc", "realloc", "free", "abort", "exit", "atexit",
	"system", "getenv", "setenv", "unsetenv", "atoi", "atol", "atoll",
	"atof", "strtol", "strtoll", "strtoul", "strtoull", "strtof", "strtod",
	"strtold", "rand", "srand", "qsort", "bsearch", "abs", "labs", "llabs",
	"div", "ldiv", "lldiv", "mblen", "mbtowc", "wctomb",
	// <string.h>
	"memcpy", "memmove", "memset", "memcmp", "memchr", "strcpy", "strncpy",
	"strcat", "strncat", "strcmp", "strncmp", "strchr", "strrchr", "strstr",
	"strlen", "strspn", "strcspn", "strpbrk", "strtok", "strerror", "strdup",
	"strndup", "strcoll", "strxfrm",
	// <ctype.h>
	"isalpha", "isdigit", "isalnum", "isspace", "isupper", "islower",
	"ispunct", "isprint", "iscntrl", "isgraph", "isxdigit", "toupper",
	"tolower",
	// <time.h>
	"time", "clock", "difftime", "mktime", "localtime", "gmtime", "asctime",
	"ctime", "strftime", "nanosleep", "clock_gettime",
	// <math.h>
	"fabs", "fmod", "ceil", "floor", "round", "trunc", "sqrt", "cbrt",
	"pow", "exp", "log", "log2", "log10", "sin", "cos", "tan", "asin",
	"acos", "atan", "atan2", "sinh", "cosh", "tanh", "hypot", "ldexp",
	"frexp", "modf", "copysign", "isnan", "isinf",
	// <signal.h>, <setjmp.h>, <assert.h>
	"signal", "raise", "kill", "setjmp", "longjmp", "assert",
	// POSIX I/O and process control
	"open", "close", "read", "write", "lseek", "stat", "fstat", "lstat",
	"dup", "dup2", "pipe", "fork", "execve", "execvp", "execlp", "waitpid",
	"wait", "getpid", "getppid", "sleep", "usleep", "unlink", "mkdir",
	"rmdir", "chdir", "getcwd", "opendir", "readdir", "closedir", "access",
	"chmod", "chown", "fcntl", "ioctl", "mmap", "munmap", "ftruncate",
	// POSIX threads and sockets
	"pthread_create", "pthread_join", "pthread_detach", "pthread_exit",
	"pthread_mutex_lock", "pthread_mutex_unlock", "pthread_cond_wait",
	"pthread_cond_signal", "socket", "bind", "listen", "accept", "connect",
	"send", "recv", "sendto", "recvfrom", "shutdown", "getaddrinfo",
	"freeaddrinfo", "select", "poll", "setsockopt", "getsockopt",
)

func makeSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
